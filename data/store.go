package data

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/google/uuid"
)

var (
	ErrRegisterNotFound = errors.New("register not found")
	ErrInvalidName      = errors.New("register name cannot be empty")
)

// Store persists registers as flat blobs keyed by register name
type Store interface {
	// ListRegisters returns every register ordered by name
	ListRegisters(ctx context.Context) ([]schedule.Register, error)
	GetRegister(ctx context.Context, name string) (schedule.Register, error)
	// SaveRegister creates or replaces the register with the same name. A
	// register without an id is given one.
	SaveRegister(ctx context.Context, register schedule.Register) (schedule.Register, error)
	// UpdateRegister loads, changes and saves a register with no other write
	// to it in between. An error from fn aborts the update.
	UpdateRegister(ctx context.Context, name string, fn func(*schedule.Register) error) (schedule.Register, error)
	DeleteRegister(ctx context.Context, name string) error
}

// NormalizeName is the key a register is stored under. Every store method
// looks names up through it so " Sem 5" and "Sem 5" are the same register.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// prepares a register for storage, returning the normalized copy. The
// caller's subjects are left untouched.
func prepare(register schedule.Register) (schedule.Register, error) {
	register.Name = NormalizeName(register.Name)
	if register.Name == "" {
		return register, ErrInvalidName
	}
	if register.ID == "" {
		register.ID = uuid.NewString()
	}
	subjects := make([]schedule.Subject, len(register.Subjects))
	copy(subjects, register.Subjects)
	for i := range subjects {
		if subjects[i].Schedule == nil {
			subjects[i].Schedule = schedule.NewWeeklySchedule()
		}
	}
	register.Subjects = subjects
	return register, nil
}

func sortByName(registers []schedule.Register) {
	sort.Slice(registers, func(i, j int) bool {
		return registers[i].Name < registers[j].Name
	})
}
