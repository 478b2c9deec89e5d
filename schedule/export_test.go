package schedule

import (
	"sort"
	"strings"
	"testing"
)

type slotTuple struct {
	title string
	day   Weekday
	start string
	end   string
	room  string
}

func tuples(subjects []Subject) []slotTuple {
	var out []slotTuple
	for _, s := range subjects {
		for _, day := range Weekdays {
			for _, sl := range s.Schedule[day] {
				out = append(out, slotTuple{s.Title, day, sl.Start, sl.End, sl.RoomName()})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.title != b.title {
			return a.title < b.title
		}
		if a.day != b.day {
			return a.day < b.day
		}
		return a.start < b.start
	})
	return out
}

func roomPtr(s string) *string { return &s }

func sampleRegister() Register {
	math := NewSubject("Math")
	math.Schedule.Add(Monday, TimeSlot{Start: "09:00", End: "10:00", Room: roomPtr("B12")})
	math.Schedule.Add(Wednesday, TimeSlot{Start: "09:00", End: "10:00"})
	art := NewSubject("Art, Modern")
	art.Schedule.Add(Monday, TimeSlot{Start: "11:00", End: "12:30", Room: roomPtr("")})
	art.Schedule.Add(Saturday, TimeSlot{Start: "08:00", End: "09:00", Room: roomPtr(`Hall "A"`)})
	return Register{Name: "Semester 5", Subjects: []Subject{math, art}}
}

func TestExportSingleLayout(t *testing.T) {
	got := ExportCSV([]Register{sampleRegister()})
	want := strings.Join([]string{
		"Semester 5",
		"",
		"Day: Monday",
		"Subject,Start Time,End Time,Room",
		"Math,09:00,10:00,B12",
		`"Art, Modern",11:00,12:30,`,
		"",
		"Day: Wednesday",
		"Subject,Start Time,End Time,Room",
		"Math,09:00,10:00,",
		"",
		"Day: Saturday",
		"Subject,Start Time,End Time,Room",
		`"Art, Modern",08:00,09:00,"Hall ""A"""`,
		"",
		"",
	}, "\n")
	if got != want {
		t.Errorf("unexpected export:\n%s\nwant:\n%s", got, want)
	}
}

func TestExportRoundTrip(t *testing.T) {
	register := sampleRegister()
	yoga := NewSubject("Yoga")
	yoga.TargetPercentage = 90
	register.Subjects = append(register.Subjects, yoga)

	result := ParseCSV(ExportCSV([]Register{register}))
	if !result.Success {
		t.Fatalf("round trip produced errors %v", result.Errors)
	}
	got, want := tuples(result.Subjects), tuples(register.Subjects)
	if len(got) != len(want) {
		t.Fatalf("got %d tuples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tuple %d = %+v; want %+v", i, got[i], want[i])
		}
	}

	// schedule less subjects survive but attributes fall back to defaults
	back := findSubject(t, result.Subjects, "Yoga")
	if back.TargetPercentage != DefaultTargetPercentage {
		t.Errorf("expected default target, got %d", back.TargetPercentage)
	}
}

func TestExportMultiRoundTrip(t *testing.T) {
	a := sampleRegister()
	b := Register{Name: "Clubs", Subjects: []Subject{subjectWith("Chess", Tuesday, slot("17:00", "18:00"))}}
	result := ParseCSV(ExportCSV([]Register{a, b}))
	if !result.Success {
		t.Fatalf("round trip produced errors %v", result.Errors)
	}
	got := tuples(result.Subjects)
	want := tuples(append(append([]Subject{}, a.Subjects...), b.Subjects...))
	if len(got) != len(want) {
		t.Fatalf("got %d tuples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tuple %d = %+v; want %+v", i, got[i], want[i])
		}
	}
}

func TestExportEmpty(t *testing.T) {
	empty := Register{Name: "Nothing", Subjects: []Subject{NewSubject("Math"), NewSubject("Art")}}
	if got := ExportCSV([]Register{empty}); got != "" {
		t.Errorf("single register export = %q; want empty", got)
	}
	if got := ExportCSV([]Register{empty, empty}); got != "" {
		t.Errorf("multi register export = %q; want empty", got)
	}
	if got := ExportCSV(nil); got != "" {
		t.Errorf("nil export = %q; want empty", got)
	}
}

func TestExportMultiGrouping(t *testing.T) {
	a := Register{Name: "A", Subjects: []Subject{subjectWith("Math", Monday, slot("09:00", "10:00"))}}
	b := Register{Name: "B", Subjects: []Subject{subjectWith("Physics", Monday, slot("10:00", "11:00"))}}
	got := ExportCSV([]Register{a, b})
	want := strings.Join([]string{
		",Day: Monday",
		"A,Subject,Start Time,End Time,Room",
		",Math,09:00,10:00,",
		"B,Subject,Start Time,End Time,Room",
		",Physics,10:00,11:00,",
		"",
		"",
	}, "\n")
	if got != want {
		t.Errorf("unexpected export:\n%s\nwant:\n%s", got, want)
	}
	if strings.Count(got, ",Day: Monday") != 1 {
		t.Error("expected a single monday marker")
	}
}

func TestExportFlattensLineBreaks(t *testing.T) {
	subject := NewSubject("Line\nBreak")
	subject.Schedule.Add(Monday, TimeSlot{Start: "09:00", End: "10:00", Room: roomPtr("B\r\n12")})
	register := Register{Name: "Sem\n5", Subjects: []Subject{subject}}

	result := ParseCSV(ExportCSV([]Register{register}))
	if !result.Success {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	if len(result.Registers) != 1 || result.Registers[0] != "Sem 5" {
		t.Errorf("unexpected registers %v", result.Registers)
	}
	if len(result.Subjects) != 1 || result.Subjects[0].Title != "Line Break" {
		t.Fatalf("expected one flattened subject, got %+v", result.Subjects)
	}
	if got := result.Subjects[0].Schedule[Monday]; len(got) != 1 || got[0].RoomName() != "B 12" {
		t.Errorf("unexpected slots %+v", got)
	}
}
