package timetable

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/xuri/excelize/v2"
)

var xlsxHeader = []string{"Day", "Start", "End", "Subject", "Room"}

// sheet names are at most 31 characters and cannot contain []:*?/\
func sheetName(name string, taken map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if cleaned == "" {
		cleaned = "Register"
	}
	cleaned = truncateRunes(cleaned, 31)

	candidate := cleaned
	for i := 2; taken[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(cleaned, 31-len(suffix)) + suffix
	}
	taken[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// XLSX builds a workbook with one sheet per register listing every slot
func XLSX(registers []schedule.Register) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	const defaultSheet = "Sheet1"
	taken := map[string]bool{}
	for i, register := range registers {
		name := sheetName(register.Name, taken)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		if err := writeSheet(f, name, register, headerStyle); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	if len(registers) == 0 {
		if err := writeHeader(f, defaultSheet, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeHeader(f *excelize.File, sheet string, style int) error {
	for i, title := range xlsxHeader {
		if err := f.SetCellValue(sheet, cell(i+1, 1), title); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, cell(1, 1), cell(len(xlsxHeader), 1), style); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "C", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "D", "D", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "E", "E", 16)
}

func writeSheet(f *excelize.File, sheet string, register schedule.Register, style int) error {
	if err := writeHeader(f, sheet, style); err != nil {
		return err
	}
	for i, entry := range Entries(register) {
		row := []interface{}{
			entry.Day.FullName(),
			entry.Slot.Start,
			entry.Slot.End,
			entry.Subject.Title,
			entry.Slot.RoomName(),
		}
		if err := f.SetSheetRow(sheet, cell(1, i+2), &row); err != nil {
			return err
		}
	}
	return nil
}
