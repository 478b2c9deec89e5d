package data

import (
	"github.com/Loop-Hive/ScheduleX/schedule"
)

// ApplyImport merges freshly parsed subjects into a stored register. A title
// that already exists gets the imported weekly schedule but keeps its id,
// attendance, target and colour. New titles are appended with ids after the
// largest existing one.
//
// Duplicates are looked for over the existing and imported subjects together
// so a title that appears in both batches is reported. Slot conflicts are
// checked on the merged register, where a re-imported schedule has already
// replaced the old one.
func ApplyImport(existing schedule.Register, imported []schedule.Subject) (schedule.Register, []string) {
	combined := make([]schedule.Subject, 0, len(existing.Subjects)+len(imported))
	combined = append(combined, existing.Subjects...)
	combined = append(combined, imported...)
	warnings := []string{}
	warnings = append(warnings, schedule.DuplicateTitles(combined)...)

	merged := existing
	merged.Subjects = make([]schedule.Subject, len(existing.Subjects), len(existing.Subjects)+len(imported))
	copy(merged.Subjects, existing.Subjects)

	byTitle := make(map[string]int, len(merged.Subjects))
	maxID := 0
	for i, subject := range merged.Subjects {
		byTitle[subject.Title] = i
		maxID = max(maxID, subject.ID)
	}

	for _, subject := range imported {
		if i, ok := byTitle[subject.Title]; ok {
			merged.Subjects[i].Schedule = subject.Schedule.Clone()
			continue
		}
		maxID++
		subject.ID = maxID
		subject.Schedule = subject.Schedule.Clone()
		byTitle[subject.Title] = len(merged.Subjects)
		merged.Subjects = append(merged.Subjects, subject)
	}
	warnings = append(warnings, schedule.SlotConflicts(merged.Subjects)...)
	return merged, warnings
}
