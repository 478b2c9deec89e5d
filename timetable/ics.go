package timetable

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Loop-Hive/ScheduleX/schedule"
	ics "github.com/arran4/golang-ical"
)

const productID = "-//Loop-Hive//ScheduleX//EN"

// weekStart is midnight of the sunday on or before t in loc
func weekStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func at(day time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}

func eventID(register schedule.Register, entry Entry) string {
	owner := register.ID
	if owner == "" {
		owner = register.Name
	}
	return fmt.Sprintf("%s-%d-%s-%s@schedulex", owner, entry.Subject.ID, entry.Day, strings.ReplaceAll(entry.Slot.Start, ":", ""))
}

// ICS renders every slot as a weekly recurring event starting in the week
// that contains weekOf. Event ids are stable so a calendar that subscribes
// to the export sees updates instead of copies.
func ICS(registers []schedule.Register, weekOf time.Time, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if len(registers) == 1 {
		cal.SetXWRCalName(registers[0].Name)
	}

	sunday := weekStart(weekOf, loc)
	stamp := time.Now().UTC()
	for _, register := range registers {
		for _, entry := range Entries(register) {
			day := sunday.AddDate(0, 0, int(entry.Day.TimeWeekday()))
			start, err := at(day, entry.Slot.Start)
			if err != nil {
				return "", fmt.Errorf("%s on %s: %w", entry.Subject.Title, entry.Day.FullName(), err)
			}
			end, err := at(day, entry.Slot.End)
			if err != nil {
				return "", fmt.Errorf("%s on %s: %w", entry.Subject.Title, entry.Day.FullName(), err)
			}

			event := cal.AddEvent(eventID(register, entry))
			event.SetDtStampTime(stamp)
			event.SetSummary(entry.Subject.Title)
			setClock(event, ics.ComponentPropertyDtStart, start)
			setClock(event, ics.ComponentPropertyDtEnd, end)
			event.AddRrule("FREQ=WEEKLY")
			if room := entry.Slot.RoomName(); room != "" {
				event.SetLocation(room)
			}
			if len(registers) > 1 {
				event.SetProperty(ics.ComponentPropertyCategories, register.Name)
			}
		}
	}
	return cal.Serialize(), nil
}

// setClock writes a wall clock time so a weekly event keeps its local time
// across daylight saving changes. A named zone is written with TZID, the
// process local zone as a floating time and UTC as UTC.
func setClock(event *ics.VEvent, name ics.ComponentProperty, t time.Time) {
	switch zone := t.Location().String(); zone {
	case "UTC":
		event.SetProperty(name, t.UTC().Format("20060102T150405Z"))
	case "Local", "":
		event.SetProperty(name, t.Format("20060102T150405"))
	default:
		tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{zone}}
		event.SetProperty(name, t.Format("20060102T150405"), tzid)
	}
}

// ParseICS reads the weekly slots out of a calendar. The weekday and clock
// times come from each event's start and end in loc. Events missing either
// are reported in Errors and the rest are still read. Repeated occurrences of
// the same slot collapse into one.
func ParseICS(r io.Reader, loc *time.Location) (schedule.ImportResult, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return schedule.ImportResult{}, fmt.Errorf("could not parse calendar: %w", err)
	}

	result := schedule.ImportResult{Errors: []string{}}
	for _, prop := range cal.CalendarProperties {
		if strings.EqualFold(prop.IANAToken, string(ics.PropertyXWRCalName)) && strings.TrimSpace(prop.Value) != "" {
			result.Registers = append(result.Registers, strings.TrimSpace(prop.Value))
		}
	}

	var order []string
	subjects := map[string]*schedule.Subject{}
	seen := map[string]bool{}
	for _, event := range cal.Events() {
		summary := event.GetProperty(ics.ComponentPropertySummary)
		if summary == nil || strings.TrimSpace(summary.Value) == "" {
			continue
		}
		title := strings.TrimSpace(unescapeText(summary.Value))

		start, err := eventTime(event, ics.ComponentPropertyDtStart, loc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Event %s has no start time", title))
			continue
		}
		end, err := eventTime(event, ics.ComponentPropertyDtEnd, loc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Event %s has no end time", title))
			continue
		}

		slot := schedule.TimeSlot{Start: start.Format("15:04"), End: end.Format("15:04")}
		if location := event.GetProperty(ics.ComponentPropertyLocation); location != nil && strings.TrimSpace(location.Value) != "" {
			room := strings.TrimSpace(unescapeText(location.Value))
			slot.Room = &room
		}
		day := schedule.WeekdayOf(start.Weekday())

		subject, ok := subjects[title]
		if !ok {
			created := schedule.NewSubject(title)
			subject = &created
			subjects[title] = subject
			order = append(order, title)
		}
		key := strings.Join([]string{title, string(day), slot.Start, slot.End, slot.RoomName()}, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		subject.Schedule.Add(day, slot)
	}

	result.Subjects = make([]schedule.Subject, len(order))
	for i, title := range order {
		subject := *subjects[title]
		subject.ID = i + 1
		result.Subjects[i] = subject
	}
	result.Success = len(result.Errors) == 0
	return result, nil
}

var textUnescaper = strings.NewReplacer(`\\`, `\`, `\,`, ",", `\;`, ";", `\n`, "\n", `\N`, "\n")

// text values escape commas, semicolons and newlines
func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}

// date only values are all day events which have no clock time
func eventTime(event *ics.VEvent, name ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := event.GetProperty(name)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", name)
	}
	value := strings.TrimSpace(prop.Value)

	zone := loc
	for key, values := range prop.ICalParameters {
		if strings.EqualFold(key, "TZID") && len(values) > 0 {
			if tz, err := time.LoadLocation(values[0]); err == nil {
				zone = tz
			}
		}
	}

	if t, err := time.Parse("20060102T150405Z", value); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("20060102T150405", value, zone); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("%s is not a date time: %q", name, value)
}
