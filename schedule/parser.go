package schedule

import (
	"fmt"
	"strings"
)

// subjectSet is an insertion ordered get-or-create accumulator keyed by title
type subjectSet struct {
	order   []string
	byTitle map[string]*Subject
}

func newSubjectSet() *subjectSet {
	return &subjectSet{byTitle: map[string]*Subject{}}
}

func (s *subjectSet) getOrCreate(title string) *Subject {
	if subject, ok := s.byTitle[title]; ok {
		return subject
	}
	subject := NewSubject(title)
	s.byTitle[title] = &subject
	s.order = append(s.order, title)
	return &subject
}

// subjects are numbered 1..n in first seen order
func (s *subjectSet) finalize() []Subject {
	subjects := make([]Subject, len(s.order))
	for i, title := range s.order {
		subject := *s.byTitle[title]
		subject.ID = i + 1
		subject.Schedule = subject.Schedule.Clone()
		subjects[i] = subject
	}
	return subjects
}

// Parser is the line by line state machine behind ParseCSV. The zero value is
// not usable, use NewParser.
type Parser struct {
	currentDay    Weekday
	hasDay        bool
	inUnscheduled bool
	register      string
	lineCount     int

	subjects  *subjectSet
	errors    []string
	registers []string
}

func NewParser() *Parser {
	return &Parser{subjects: newSubjectSet()}
}

// CurrentDay reports the day section the parser is in, if any
func (p *Parser) CurrentDay() (Weekday, bool) {
	return p.currentDay, p.hasDay
}

// CurrentRegister is the register named by the last name line or
// multi register header
func (p *Parser) CurrentRegister() string {
	return p.register
}

func (p *Parser) InUnscheduledSection() bool {
	return p.inUnscheduled
}

// Feed processes one line and returns how it was classified. Lines must be fed
// in document order since day sections carry over between lines.
func (p *Parser) Feed(line string) Row {
	row := ClassifyLine(line, p.lineCount == 0)
	p.lineCount++

	switch r := row.(type) {
	case RegisterNameRow:
		p.register = r.Name
		p.addRegister(r.Name)
	case DayMarker:
		p.inUnscheduled = false
		if !r.Known {
			p.errors = append(p.errors, fmt.Sprintf("Unknown day name: %s", r.Name))
			p.currentDay, p.hasDay = "", false
			break
		}
		p.currentDay, p.hasDay = r.Day, true
	case UnscheduledMarker:
		p.inUnscheduled = true
		p.currentDay, p.hasDay = "", false
	case HeaderRow:
		if r.Register != "" {
			p.register = r.Register
			p.addRegister(r.Register)
		}
	case SingleRegisterRow:
		p.handleData(r.Subject, r.Start, r.End, r.Room)
	case MultiRegisterRow:
		p.handleData(r.Subject, r.Start, r.End, r.Room)
	}
	return row
}

func (p *Parser) addRegister(name string) {
	if name == "" {
		return
	}
	for _, known := range p.registers {
		if known == name {
			return
		}
	}
	p.registers = append(p.registers, name)
}

func (p *Parser) handleData(title, start, end, room string) {
	if title == "" || title == "Subject" {
		return
	}
	subject := p.subjects.getOrCreate(title)
	if p.inUnscheduled || !p.hasDay {
		return
	}

	slot, ok, err := parseSlot(title, start, end, room)
	if err != "" {
		p.errors = append(p.errors, err)
		return
	}
	if ok {
		subject.Schedule.Add(p.currentDay, slot)
	}
}

// parseSlot maps the text sentinels onto optionals. ok is false when the row
// carries no slot, err is set when the times cannot be read.
func parseSlot(title, start, end, room string) (TimeSlot, bool, string) {
	if strings.EqualFold(start, notScheduled) {
		return TimeSlot{}, false, ""
	}
	normalizedStart, okStart := NormalizeTime(start)
	normalizedEnd, okEnd := NormalizeTime(end)
	if !okStart || !okEnd {
		return TimeSlot{}, false, fmt.Sprintf("Invalid time format for %s: %s-%s", title, start, end)
	}

	slot := TimeSlot{Start: normalizedStart, End: normalizedEnd}
	if room != "" && !strings.EqualFold(room, notAssigned) {
		slot.Room = &room
	}
	return slot, true, ""
}

// Result finalizes everything fed so far. It can be called more than once.
func (p *Parser) Result() ImportResult {
	errs := append([]string{}, p.errors...)
	return ImportResult{
		Success:   len(errs) == 0,
		Subjects:  p.subjects.finalize(),
		Errors:    errs,
		Registers: append([]string{}, p.registers...),
	}
}

// ParseCSV reads a schedule CSV as written by ExportCSV or edited by hand.
// Bad rows become entries in Errors, the rest of the document is still read.
func ParseCSV(text string) ImportResult {
	text = strings.TrimPrefix(text, "\ufeff")
	parser := NewParser()
	for _, line := range strings.Split(text, "\n") {
		parser.Feed(strings.TrimRight(line, "\r"))
	}
	return parser.Result()
}
