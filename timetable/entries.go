package timetable

import (
	"sort"

	"github.com/Loop-Hive/ScheduleX/schedule"
)

// Entry is one slot of one subject placed on the week
type Entry struct {
	Register string
	Day      schedule.Weekday
	Slot     schedule.TimeSlot
	Subject  schedule.Subject
}

// Entries flattens a register into slots ordered by weekday and then start time
func Entries(register schedule.Register) []Entry {
	var entries []Entry
	for _, day := range schedule.Weekdays {
		var today []Entry
		for _, subject := range register.Subjects {
			for _, slot := range subject.Schedule[day] {
				today = append(today, Entry{
					Register: register.Name,
					Day:      day,
					Slot:     slot,
					Subject:  subject,
				})
			}
		}
		sort.SliceStable(today, func(i, j int) bool {
			return today[i].Slot.Start < today[j].Slot.Start
		})
		entries = append(entries, today...)
	}
	return entries
}

func byDay(entries []Entry) map[schedule.Weekday][]Entry {
	days := make(map[schedule.Weekday][]Entry)
	for _, entry := range entries {
		days[entry.Day] = append(days[entry.Day], entry)
	}
	return days
}
