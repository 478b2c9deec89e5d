package data

import (
	"reflect"
	"testing"

	"github.com/Loop-Hive/ScheduleX/schedule"
)

func subjectOn(title string, id int, day schedule.Weekday, start, end string) schedule.Subject {
	s := schedule.NewSubject(title)
	s.ID = id
	s.Schedule.Add(day, schedule.TimeSlot{Start: start, End: end})
	return s
}

func TestApplyImportKeepsExistingSubjects(t *testing.T) {
	math := subjectOn("Math", 4, schedule.Monday, "09:00", "10:00")
	math.Present, math.Total, math.TargetPercentage, math.TagColor = 3, 4, 80, "#FF0000"
	existing := schedule.Register{ID: "r1", Name: "Sem", Subjects: []schedule.Subject{math}}

	imported := schedule.ParseCSV("Sem\n\nDay: Tuesday\nMath,11:00,12:00,\nArt,13:00,14:00,Studio\n")
	merged, warnings := ApplyImport(existing, imported.Subjects)

	if !reflect.DeepEqual(warnings, []string{"Duplicate subject found: Math"}) {
		t.Errorf("unexpected warnings %v", warnings)
	}
	if len(merged.Subjects) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(merged.Subjects))
	}

	gotMath := merged.Subjects[0]
	if gotMath.ID != 4 || gotMath.Present != 3 || gotMath.Total != 4 || gotMath.TargetPercentage != 80 || gotMath.TagColor != "#FF0000" {
		t.Errorf("existing attributes were not kept: %+v", gotMath)
	}
	if len(gotMath.Schedule[schedule.Monday]) != 0 || len(gotMath.Schedule[schedule.Tuesday]) != 1 {
		t.Errorf("schedule should be replaced by the import, got %+v", gotMath.Schedule)
	}

	art := merged.Subjects[1]
	if art.ID != 5 || art.Title != "Art" || art.TargetPercentage != schedule.DefaultTargetPercentage {
		t.Errorf("unexpected new subject %+v", art)
	}

	// the stored register is untouched
	if len(existing.Subjects) != 1 || len(existing.Subjects[0].Schedule[schedule.Monday]) != 1 {
		t.Error("ApplyImport modified its input")
	}
}

func TestApplyImportIntoEmptyRegister(t *testing.T) {
	imported := []schedule.Subject{
		subjectOn("Math", 1, schedule.Friday, "09:00", "10:00"),
		subjectOn("Art", 2, schedule.Friday, "09:30", "10:30"),
	}
	merged, warnings := ApplyImport(schedule.Register{Name: "New"}, imported)
	if len(warnings) != 0 {
		t.Errorf("slots of different subjects never conflict, got %v", warnings)
	}
	if len(merged.Subjects) != 2 || merged.Subjects[0].ID != 1 || merged.Subjects[1].ID != 2 {
		t.Errorf("unexpected subjects %+v", merged.Subjects)
	}
}

func TestApplyImportReplacesOverlappingSchedule(t *testing.T) {
	chem := subjectOn("Chemistry", 1, schedule.Tuesday, "09:00", "10:30")
	chem.Schedule.Add(schedule.Tuesday, schedule.TimeSlot{Start: "10:00", End: "11:00"})
	existing := schedule.Register{Name: "Lab", Subjects: []schedule.Subject{chem}}

	fixed := []schedule.Subject{subjectOn("Chemistry", 1, schedule.Tuesday, "09:00", "10:00")}
	merged, warnings := ApplyImport(existing, fixed)

	if !reflect.DeepEqual(warnings, []string{"Duplicate subject found: Chemistry"}) {
		t.Errorf("the replaced overlap should not be reported, got %v", warnings)
	}
	if got := merged.Subjects[0].Schedule[schedule.Tuesday]; len(got) != 1 || got[0].End != "10:00" {
		t.Errorf("unexpected merged schedule %+v", got)
	}
}

func TestApplyImportReportsOverlapsInMergedRegister(t *testing.T) {
	imported := []schedule.Subject{subjectOn("Chemistry", 1, schedule.Tuesday, "09:00", "10:30")}
	imported[0].Schedule.Add(schedule.Tuesday, schedule.TimeSlot{Start: "10:00", End: "11:00"})

	_, warnings := ApplyImport(schedule.Register{Name: "Lab"}, imported)
	want := []string{"Overlapping time slots for Chemistry on Tuesday: 09:00-10:30 and 10:00-11:00"}
	if !reflect.DeepEqual(warnings, want) {
		t.Errorf("got %v; want %v", warnings, want)
	}
}
