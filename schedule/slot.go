package schedule

import (
	"strings"
	"time"
)

type Weekday string

const (
	Sunday    Weekday = "sun"
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
)

// Weekdays is the fixed display and export order
var Weekdays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var fullDayNames = map[Weekday]string{
	Sunday:    "Sunday",
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
}

func (d Weekday) FullName() string {
	return fullDayNames[d]
}

func (d Weekday) Valid() bool {
	_, ok := fullDayNames[d]
	return ok
}

// ParseWeekday accepts full day names ("Monday") and the short keys ("mon"),
// ignoring case and surrounding space.
func ParseWeekday(name string) (Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range Weekdays {
		if name == string(d) || name == strings.ToLower(d.FullName()) {
			return d, true
		}
	}
	return "", false
}

// WeekdayOf maps a time.Weekday onto the matching key
func WeekdayOf(d time.Weekday) Weekday {
	return Weekdays[int(d)%len(Weekdays)]
}

// TimeWeekday is the inverse of WeekdayOf. Invalid days map to Sunday.
func (d Weekday) TimeWeekday() time.Weekday {
	for i, day := range Weekdays {
		if day == d {
			return time.Weekday(i)
		}
	}
	return time.Sunday
}

// TimeSlot is one weekly occurrence of a subject. Start and End are "HH:MM".
// A nil Room means no room was assigned.
type TimeSlot struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Room  *string `json:"room"`
}

func (t TimeSlot) RoomName() string {
	if t.Room == nil {
		return ""
	}
	return *t.Room
}

// String renders the slot range as "start-end"
func (t TimeSlot) String() string {
	return t.Start + "-" + t.End
}

// WeeklySchedule maps each weekday to its slots in insertion order.
type WeeklySchedule map[Weekday][]TimeSlot

func NewWeeklySchedule() WeeklySchedule {
	ws := make(WeeklySchedule, len(Weekdays))
	for _, d := range Weekdays {
		ws[d] = []TimeSlot{}
	}
	return ws
}

// SlotCount is the number of slots across the whole week
func (ws WeeklySchedule) SlotCount() int {
	count := 0
	for _, slots := range ws {
		count += len(slots)
	}
	return count
}

func (ws WeeklySchedule) Clone() WeeklySchedule {
	clone := NewWeeklySchedule()
	for day, slots := range ws {
		clone[day] = append([]TimeSlot{}, slots...)
	}
	return clone
}

func (ws WeeklySchedule) Add(day Weekday, slot TimeSlot) {
	ws[day] = append(ws[day], slot)
}

const (
	DefaultTargetPercentage = 75
	DefaultTagColor         = "#3B82F6"
)

// Subject is a card: something whose attendance is tracked against a target.
type Subject struct {
	ID               int            `json:"id"`
	Title            string         `json:"title"`
	Schedule         WeeklySchedule `json:"schedule"`
	TargetPercentage int            `json:"targetPercentage"`
	TagColor         string         `json:"tagColor"`
	Present          int            `json:"present"`
	Total            int            `json:"total"`
}

func NewSubject(title string) Subject {
	return Subject{
		Title:            title,
		Schedule:         NewWeeklySchedule(),
		TargetPercentage: DefaultTargetPercentage,
		TagColor:         DefaultTagColor,
	}
}

// Register groups subjects, usually one per semester.
type Register struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Subjects []Subject `json:"subjects"`
}

// ImportResult is what a parse recovered. Subjects are returned even when
// Success is false so callers can continue with partial data.
type ImportResult struct {
	Success   bool      `json:"success"`
	Subjects  []Subject `json:"subjects"`
	Errors    []string  `json:"errors"`
	Registers []string  `json:"registers"`
}
