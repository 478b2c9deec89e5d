package schedule

import (
	"fmt"
	"sort"
)

// Validate returns human readable warnings for a batch of finalized subjects:
// duplicate titles, slots that end before they start, and overlapping slots
// within a subject's day. It never modifies its input.
//
// Titles are already merged within a single parse so duplicates only show up
// when batches are combined, see data.ApplyImport.
func Validate(subjects []Subject) []string {
	warnings := []string{}
	warnings = append(warnings, DuplicateTitles(subjects)...)
	warnings = append(warnings, SlotConflicts(subjects)...)
	return warnings
}

// SlotConflicts reports invalid ranges and overlaps within each subject
func SlotConflicts(subjects []Subject) []string {
	var warnings []string
	for _, subject := range subjects {
		warnings = append(warnings, subjectConflicts(subject)...)
	}
	return warnings
}

// DuplicateTitles reports each title that appears more than once
func DuplicateTitles(subjects []Subject) []string {
	var warnings []string
	seen := make(map[string]int, len(subjects))
	for _, subject := range subjects {
		seen[subject.Title]++
		if seen[subject.Title] == 2 {
			warnings = append(warnings, fmt.Sprintf("Duplicate subject found: %s", subject.Title))
		}
	}
	return warnings
}

func subjectConflicts(subject Subject) []string {
	var warnings []string
	for _, day := range Weekdays {
		slots := subject.Schedule[day]
		for _, slot := range slots {
			if slot.End <= slot.Start {
				warnings = append(warnings, fmt.Sprintf(
					"Invalid time range for %s on %s: %s",
					subject.Title, day.FullName(), slot,
				))
			}
		}
		if len(slots) < 2 {
			continue
		}

		// once sorted by start only neighbours need comparing
		sorted := SortedSlots(slots)
		for i := 1; i < len(sorted); i++ {
			previous, next := sorted[i-1], sorted[i]
			if previous.End > next.Start {
				warnings = append(warnings, fmt.Sprintf(
					"Overlapping time slots for %s on %s: %s and %s",
					subject.Title, day.FullName(), previous, next,
				))
			}
		}
	}
	return warnings
}

// SortedSlots returns a copy of slots ordered by start time. Zero padded
// "HH:MM" strings sort the same as the times they represent.
func SortedSlots(slots []TimeSlot) []TimeSlot {
	sorted := append([]TimeSlot{}, slots...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return sorted
}
