package timetable

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/xuri/excelize/v2"
)

func room(s string) *string { return &s }

func testRegister() schedule.Register {
	math := schedule.NewSubject("Math")
	math.ID = 1
	math.Present, math.Total = 1, 4
	math.Schedule.Add(schedule.Monday, schedule.TimeSlot{Start: "11:00", End: "12:00"})
	math.Schedule.Add(schedule.Monday, schedule.TimeSlot{Start: "08:00", End: "09:00", Room: room("B12")})
	art := schedule.NewSubject("Art, <Modern>")
	art.ID = 2
	art.TagColor = "red;background:url(x)"
	art.Schedule.Add(schedule.Monday, schedule.TimeSlot{Start: "09:30", End: "10:30", Room: room("Studio")})
	art.Schedule.Add(schedule.Saturday, schedule.TimeSlot{Start: "21:00", End: "22:30"})
	return schedule.Register{ID: "3f1c", Name: "Semester 5", Subjects: []schedule.Subject{math, art}}
}

func TestEntriesOrder(t *testing.T) {
	entries := Entries(testRegister())
	want := []string{"mon 08:00 Math", "mon 09:30 Art, <Modern>", "mon 11:00 Math", "sat 21:00 Art, <Modern>"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, entry := range entries {
		got := string(entry.Day) + " " + entry.Slot.Start + " " + entry.Subject.Title
		if got != want[i] {
			t.Errorf("entry %d = %q; want %q", i, got, want[i])
		}
	}
}

func TestHTML(t *testing.T) {
	var b strings.Builder
	if err := HTML(testRegister()).Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	page := b.String()
	for _, want := range []string{
		"<h1>Semester 5</h1>",
		"Art, &lt;Modern&gt;",
		"08:00-09:00",
		"B12",
		"attend 8 more",
		`style="border-color:` + schedule.DefaultTagColor + `"`,
		`<tr data-status="behind"><td>Math</td><td>1/4</td><td>25.0%</td><td>75%</td><td>attend 8 more</td></tr>`,
		`<tr data-status="new"><td>Art, &lt;Modern&gt;</td>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page is missing %q", want)
		}
	}
	if strings.Contains(page, "<Modern>") || strings.Contains(page, "url(x)") {
		t.Error("user text was not escaped")
	}
	if strings.Index(page, "08:00-09:00") > strings.Index(page, "09:30-10:30") {
		t.Error("slots should be sorted by start time")
	}
}

func TestXLSX(t *testing.T) {
	other := schedule.Register{Name: "Clubs/Societies", Subjects: []schedule.Subject{}}
	buf, err := XLSX([]schedule.Register{testRegister(), other})
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Semester 5" || sheets[1] != "Clubs_Societies" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	rows, err := f.GetRows("Semester 5")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected a header and 4 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "Day,Start,End,Subject,Room" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if strings.Join(rows[1], ",") != "Monday,08:00,09:00,Math,B12" {
		t.Errorf("unexpected first row %v", rows[1])
	}
	if rows[4][0] != "Saturday" || rows[4][3] != "Art, <Modern>" {
		t.Errorf("unexpected last row %v", rows[4])
	}
}

func TestSheetNames(t *testing.T) {
	taken := map[string]bool{}
	long := strings.Repeat("x", 40)
	first := sheetName(long, taken)
	second := sheetName(long, taken)
	if len(first) != 31 || len(second) != 31 || first == second {
		t.Errorf("unexpected names %q %q", first, second)
	}
	if got := sheetName("  ", taken); got != "Register" {
		t.Errorf("expected a fallback name, got %q", got)
	}
}

func TestICSRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("time zone data not available")
	}
	register := testRegister()
	weekOf := time.Date(2026, time.October, 14, 12, 0, 0, 0, loc)
	text, err := ICS([]schedule.Register{register}, weekOf, loc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "RRULE:FREQ=WEEKLY") || !strings.Contains(text, "X-WR-CALNAME:Semester 5") {
		t.Errorf("calendar is missing expected properties:\n%s", text)
	}
	if !strings.Contains(text, "3f1c-1-mon-0800@schedulex") {
		t.Errorf("expected stable event ids:\n%s", text)
	}

	result, err := ParseICS(strings.NewReader(text), loc)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	if len(result.Registers) != 1 || result.Registers[0] != "Semester 5" {
		t.Errorf("unexpected registers %v", result.Registers)
	}
	if len(result.Subjects) != 2 {
		t.Fatalf("expected 2 subjects, got %+v", result.Subjects)
	}
	for i, subject := range result.Subjects {
		original := register.Subjects[i]
		if subject.Title != original.Title {
			t.Errorf("subject %d title %q; want %q", i, subject.Title, original.Title)
		}
		for _, day := range schedule.Weekdays {
			got := schedule.SortedSlots(subject.Schedule[day])
			want := schedule.SortedSlots(original.Schedule[day])
			if len(got) != len(want) {
				t.Errorf("%s %s: got %d slots, want %d", subject.Title, day, len(got), len(want))
				continue
			}
			for j := range want {
				if got[j].String() != want[j].String() || got[j].RoomName() != want[j].RoomName() {
					t.Errorf("%s %s: got %v want %v", subject.Title, day, got[j], want[j])
				}
			}
		}
	}
}

func TestParseICSReportsEventsWithoutTimes(t *testing.T) {
	calendar := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:1",
		"SUMMARY:Field Trip",
		"DTSTART;VALUE=DATE:20261016",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:2",
		"SUMMARY:Chess",
		"DTSTART:20261015T170000Z",
		"DTEND:20261015T180000Z",
		"LOCATION:Room 4",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:3",
		"SUMMARY:Chess",
		"DTSTART:20261022T170000Z",
		"DTEND:20261022T180000Z",
		"LOCATION:Room 4",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")
	result, err := ParseICS(strings.NewReader(calendar), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success || len(result.Errors) != 1 || result.Errors[0] != "Event Field Trip has no start time" {
		t.Errorf("unexpected errors %v", result.Errors)
	}
	if len(result.Subjects) != 1 {
		t.Fatalf("expected only Chess, got %+v", result.Subjects)
	}
	chess := result.Subjects[0]
	if slots := chess.Schedule[schedule.Thursday]; len(slots) != 1 || slots[0].String() != "17:00-18:00" || slots[0].RoomName() != "Room 4" {
		t.Errorf("repeated occurrences should collapse into one slot, got %+v", chess.Schedule)
	}
}

func TestICSKeepsWallClockAcrossDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("time zone data not available")
	}
	weekOf := time.Date(2026, time.January, 14, 12, 0, 0, 0, loc)
	text, err := ICS([]schedule.Register{testRegister()}, weekOf, loc)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"DTSTART;TZID=America/New_York:20260112T080000",
		"DTEND;TZID=America/New_York:20260112T090000",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %s in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "T130000Z") {
		t.Errorf("slots should not be pinned to utc:\n%s", text)
	}

	// read back in a zone with different offsets the times follow TZID
	result, err := ParseICS(strings.NewReader(text), loc)
	if err != nil {
		t.Fatal(err)
	}
	math := result.Subjects[0]
	if got := schedule.SortedSlots(math.Schedule[schedule.Monday]); len(got) != 2 || got[0].Start != "08:00" {
		t.Errorf("unexpected slots %+v", got)
	}
}

func TestICSLocalZoneIsFloating(t *testing.T) {
	weekOf := time.Date(2026, time.January, 14, 12, 0, 0, 0, time.Local)
	text, err := ICS([]schedule.Register{testRegister()}, weekOf, time.Local)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "DTSTART:20260112T080000\r\n") {
		t.Errorf("expected a floating start time:\n%s", text)
	}
}
