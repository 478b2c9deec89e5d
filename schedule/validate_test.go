package schedule

import (
	"reflect"
	"testing"
)

func slot(start, end string) TimeSlot {
	return TimeSlot{Start: start, End: end}
}

func subjectWith(title string, day Weekday, slots ...TimeSlot) Subject {
	s := NewSubject(title)
	for _, sl := range slots {
		s.Schedule.Add(day, sl)
	}
	return s
}

func TestValidateOverlap(t *testing.T) {
	cases := []struct {
		name  string
		slots []TimeSlot
		want  []string
	}{
		{
			"overlapping",
			[]TimeSlot{slot("09:00", "10:00"), slot("09:30", "10:30")},
			[]string{"Overlapping time slots for Math on Monday: 09:00-10:00 and 09:30-10:30"},
		},
		{
			"touching",
			[]TimeSlot{slot("09:00", "10:00"), slot("10:00", "11:00")},
			[]string{},
		},
		{
			"out of order",
			[]TimeSlot{slot("14:00", "15:00"), slot("09:00", "14:30")},
			[]string{"Overlapping time slots for Math on Monday: 09:00-14:30 and 14:00-15:00"},
		},
		{
			"single slot",
			[]TimeSlot{slot("09:00", "10:00")},
			[]string{},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Validate([]Subject{subjectWith("Math", Monday, c.slots...)})
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("Validate() = %q; want %q", got, c.want)
			}
		})
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	s := subjectWith("Math", Monday, slot("14:00", "15:00"), slot("09:00", "10:00"))
	Validate([]Subject{s})
	if s.Schedule[Monday][0].Start != "14:00" {
		t.Error("validation reordered the caller's slots")
	}
}

func TestValidateDuplicates(t *testing.T) {
	subjects := []Subject{NewSubject("Yoga"), NewSubject("Math"), NewSubject("Yoga"), NewSubject("Yoga")}
	got := Validate(subjects)
	want := []string{"Duplicate subject found: Yoga"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Validate() = %q; want %q", got, want)
	}
}

func TestValidateInvalidRange(t *testing.T) {
	got := Validate([]Subject{subjectWith("Art", Friday, slot("11:00", "10:00"))})
	want := []string{"Invalid time range for Art on Friday: 11:00-10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Validate() = %q; want %q", got, want)
	}
}
