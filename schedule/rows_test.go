package schedule

import (
	"reflect"
	"testing"
)

func TestSplitColumns(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Math,09:00,10:00,B12", []string{"Math", "09:00", "10:00", "B12"}},
		{",Math,09:00,10:00,", []string{"", "Math", "09:00", "10:00", ""}},
		{`"Art, History",09:00,10:00,`, []string{"Art, History", "09:00", "10:00", ""}},
		{`"The ""Best"" Class",9:00,10:00`, []string{`The "Best" Class`, "9:00", "10:00"}},
		{" Math , 9:0 ,10:0 ", []string{"Math", "9:0", "10:0"}},
		{"Fall 2024", []string{"Fall 2024"}},
	}
	for _, c := range cases {
		got := SplitColumns(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("SplitColumns(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		first bool
		want  Row
	}{
		{"blank", "   ", false, BlankRow{}},
		{"register name", "Semester 5", true, RegisterNameRow{Name: "Semester 5"}},
		{"quoted register name", `"Semester 5, CS"`, true, RegisterNameRow{Name: "Semester 5, CS"}},
		{"day", "Day: Monday", false, DayMarker{Day: Monday, Name: "Monday", Known: true}},
		{"day lower case", "day: tuesday", false, DayMarker{Day: Tuesday, Name: "tuesday", Known: true}},
		{"multi day", ",Day: Friday", false, DayMarker{Day: Friday, Name: "Friday", Known: true}},
		{"first line day", ",Day: Sunday", true, DayMarker{Day: Sunday, Name: "Sunday", Known: true}},
		{"unknown day", "Day: Funday", false, DayMarker{Name: "Funday"}},
		{"unscheduled", "Subjects without time slots", false, UnscheduledMarker{}},
		{"header", "Subject,Start Time,End Time,Room", false, HeaderRow{}},
		{"blank column header", ",Subject,Start Time,End Time,Room", false, HeaderRow{}},
		{"register header", "Sem 1,Subject,Start Time,End Time,Room", false, HeaderRow{Register: "Sem 1"}},
		{
			"single data", "Math,09:00,10:00,B12", false,
			SingleRegisterRow{Subject: "Math", Start: "09:00", End: "10:00", Room: "B12"},
		},
		{
			"short single data", "Math", false,
			SingleRegisterRow{Subject: "Math"},
		},
		{
			"multi data", ",Math,09:00,10:00,", false,
			MultiRegisterRow{Subject: "Math", Start: "09:00", End: "10:00"},
		},
		{"day with empty columns", "Day: Monday,,,", false, DayMarker{Day: Monday, Name: "Monday", Known: true}},
		{
			"subject starting with day", "Day: Care Lab,08:00,09:00,", false,
			SingleRegisterRow{Subject: "Day: Care Lab", Start: "08:00", End: "09:00"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassifyLine(c.line, c.first)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("ClassifyLine(%q) = %#v; want %#v", c.line, got, c.want)
			}
		})
	}
}
