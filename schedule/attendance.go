package schedule

import "math"

type AttendanceStatus struct {
	Percentage float64 `json:"percentage"`
	OnTrack    bool    `json:"onTrack"`
	// classes in a row that must be attended to reach the target, -1 if it
	// can never be reached
	ToAttend int `json:"toAttend"`
	// classes in a row that can be missed while staying on target, -1 if
	// there is no limit
	CanSkip int `json:"canSkip"`
}

// Mark records one class, attended or missed
func (s *Subject) Mark(present bool) {
	s.Total++
	if present {
		s.Present++
	}
}

// Undo reverses a Mark with the same argument
func (s *Subject) Undo(present bool) {
	if s.Total == 0 {
		return
	}
	if present {
		if s.Present == 0 {
			return
		}
		s.Present--
	} else if s.Total == s.Present {
		// nothing missed to take back
		return
	}
	s.Total--
}

func (s Subject) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Present) * 100 / float64(s.Total)
}

func (s Subject) Status() AttendanceStatus {
	target := s.TargetPercentage
	status := AttendanceStatus{Percentage: s.Percentage()}
	// with nothing recorded yet the subject has not fallen behind
	status.OnTrack = s.Total == 0 || s.Present*100 >= target*s.Total

	switch {
	case status.OnTrack:
		status.ToAttend = 0
	case target >= 100:
		status.ToAttend = -1
	default:
		// (present + n) * 100 >= target * (total + n)
		need := float64(target*s.Total-100*s.Present) / float64(100-target)
		status.ToAttend = int(math.Ceil(need))
	}

	switch {
	case target <= 0:
		status.CanSkip = -1
	case !status.OnTrack:
		status.CanSkip = 0
	default:
		// present * 100 >= target * (total + k)
		status.CanSkip = (100*s.Present - target*s.Total) / target
	}
	return status
}

// Summary totals attendance over every subject in the register
func (r Register) Summary() Subject {
	summary := Subject{Title: r.Name, TargetPercentage: DefaultTargetPercentage}
	for _, subject := range r.Subjects {
		summary.Present += subject.Present
		summary.Total += subject.Total
	}
	return summary
}
