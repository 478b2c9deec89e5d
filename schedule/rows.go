package schedule

import (
	"regexp"
	"strings"
)

const (
	notScheduled       = "Not Scheduled"
	notAssigned        = "Not Assigned"
	unscheduledMarker  = "subjects without time slots"
	UnscheduledSection = "Subjects without time slots"
)

var dayMarker = regexp.MustCompile(`(?i)^day:\s*(.*)$`)

// Row is one classified line of a schedule CSV. The concrete types are the
// only implementations.
type Row interface {
	isRow()
}

type BlankRow struct{}

// RegisterNameRow is the comma-less first line naming the register
type RegisterNameRow struct {
	Name string
}

type DayMarker struct {
	Day   Weekday
	Name  string
	Known bool
}

type UnscheduledMarker struct{}

// HeaderRow is "Subject,Start Time,End Time,Room". In the multi-register
// layout the leading column holds the register name.
type HeaderRow struct {
	Register string
}

type SingleRegisterRow struct {
	Subject string
	Start   string
	End     string
	Room    string
}

type MultiRegisterRow struct {
	Subject string
	Start   string
	End     string
	Room    string
}

func (BlankRow) isRow()          {}
func (RegisterNameRow) isRow()   {}
func (DayMarker) isRow()         {}
func (UnscheduledMarker) isRow() {}
func (HeaderRow) isRow()         {}
func (SingleRegisterRow) isRow() {}
func (MultiRegisterRow) isRow()  {}

// ClassifyLine decides what a line is without any parse state. firstLine is
// true only for the first line of the document.
func ClassifyLine(line string, firstLine bool) Row {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return BlankRow{}
	}
	columns := SplitColumns(trimmed)

	if firstLine && (!strings.Contains(trimmed, ",") || len(columns) == 1) {
		return RegisterNameRow{Name: columns[0]}
	}

	if marker, ok := classifyDayMarker(columns); ok {
		return marker
	}
	if strings.Contains(strings.ToLower(trimmed), unscheduledMarker) {
		return UnscheduledMarker{}
	}

	if isHeader(columns) {
		return HeaderRow{}
	}
	if len(columns) > 1 && isHeader(columns[1:]) {
		return HeaderRow{Register: columns[0]}
	}

	// a leading empty column is the multi register shape
	if len(columns) >= 5 && columns[0] == "" {
		return MultiRegisterRow{
			Subject: columns[1],
			Start:   columns[2],
			End:     columns[3],
			Room:    columns[4],
		}
	}
	return SingleRegisterRow{
		Subject: column(columns, 0),
		Start:   column(columns, 1),
		End:     column(columns, 2),
		Room:    column(columns, 3),
	}
}

// the marker is the only non empty column, "Day: Monday" or ",Day: Monday".
// A data row whose subject happens to start with "Day:" is not a marker.
func classifyDayMarker(columns []string) (DayMarker, bool) {
	marker := ""
	for _, c := range columns {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if marker != "" {
			return DayMarker{}, false
		}
		marker = c
	}
	match := dayMarker.FindStringSubmatch(marker)
	if match == nil {
		return DayMarker{}, false
	}
	name := strings.TrimSpace(match[1])
	day, known := ParseWeekday(name)
	return DayMarker{Day: day, Name: name, Known: known}, true
}

func isHeader(columns []string) bool {
	return len(columns) >= 2 &&
		strings.EqualFold(columns[0], "Subject") &&
		strings.EqualFold(columns[1], "Start Time")
}

func column(columns []string, i int) string {
	if i < len(columns) {
		return columns[i]
	}
	return ""
}

// SplitColumns splits a line on commas outside of double quotes. A doubled
// quote inside quotes is a literal quote. Columns are trimmed.
func SplitColumns(line string) []string {
	var columns []string
	var current strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			i++
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			columns = append(columns, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	columns = append(columns, strings.TrimSpace(current.String()))
	return columns
}
