package schedule

import (
	"bytes"
	"encoding/csv"
	"strings"
)

var headerColumns = []string{"Subject", "Start Time", "End Time", "Room"}

// ExportCSV renders registers in the format ParseCSV reads back. One register
// gets the plain layout, more than one gets the layout with a leading register
// column. Nothing to export gives "".
//
// Only the weekly schedule survives the round trip: targets, colours and
// attendance counts are reset to defaults on import.
func ExportCSV(registers []Register) string {
	switch len(registers) {
	case 0:
		return ""
	case 1:
		return exportSingle(registers[0])
	default:
		return exportMulti(registers)
	}
}

type csvBuffer struct {
	buf bytes.Buffer
	w   *csv.Writer
}

func newCSVBuffer() *csvBuffer {
	c := &csvBuffer{}
	c.w = csv.NewWriter(&c.buf)
	return c
}

// the parser reads one line per row, so line breaks inside a field become spaces
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// writes to a bytes.Buffer cannot fail
func (c *csvBuffer) row(fields ...string) {
	flat := make([]string, len(fields))
	for i, field := range fields {
		flat[i] = lineBreaks.Replace(field)
	}
	_ = c.w.Write(flat)
}

func (c *csvBuffer) blank() {
	_ = c.w.Write(nil)
}

func (c *csvBuffer) String() string {
	c.w.Flush()
	return c.buf.String()
}

func exportSingle(register Register) string {
	out := newCSVBuffer()
	out.row(register.Name)
	out.blank()

	rows := 0
	for _, day := range Weekdays {
		if daySlotCount(register, day) == 0 {
			continue
		}
		out.row("Day: " + day.FullName())
		out.row(headerColumns...)
		for _, subject := range register.Subjects {
			for _, slot := range subject.Schedule[day] {
				out.row(subject.Title, slot.Start, slot.End, slot.RoomName())
				rows++
			}
		}
		out.blank()
	}
	if rows == 0 {
		return ""
	}

	var unscheduled []Subject
	for _, subject := range register.Subjects {
		if subject.Schedule.SlotCount() == 0 {
			unscheduled = append(unscheduled, subject)
		}
	}
	if len(unscheduled) > 0 {
		out.row(UnscheduledSection)
		out.row(headerColumns...)
		for _, subject := range unscheduled {
			out.row(subject.Title, notScheduled, "", "")
		}
		out.blank()
	}
	return out.String()
}

func exportMulti(registers []Register) string {
	out := newCSVBuffer()
	rows := 0
	for _, day := range Weekdays {
		if !anyRegisterHasSlots(registers, day) {
			continue
		}
		out.row("", "Day: "+day.FullName())
		for _, register := range registers {
			if daySlotCount(register, day) == 0 {
				continue
			}
			out.row(append([]string{register.Name}, headerColumns...)...)
			for _, subject := range register.Subjects {
				for _, slot := range subject.Schedule[day] {
					out.row("", subject.Title, slot.Start, slot.End, slot.RoomName())
					rows++
				}
			}
		}
		out.blank()
	}
	if rows == 0 {
		return ""
	}
	return out.String()
}

func daySlotCount(register Register, day Weekday) int {
	count := 0
	for _, subject := range register.Subjects {
		count += len(subject.Schedule[day])
	}
	return count
}

func anyRegisterHasSlots(registers []Register, day Weekday) bool {
	for _, register := range registers {
		if daySlotCount(register, day) > 0 {
			return true
		}
	}
	return false
}
