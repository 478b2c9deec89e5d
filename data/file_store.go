package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"
)

// FileStore keeps every register in one json document on disk. Writes replace
// the file atomically so a crash never leaves half a document behind.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *log.Entry
}

type fileDocument struct {
	Registers map[string]schedule.Register `json:"registers"`
}

func NewFileStore(path string, logger *log.Entry) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.WithField("store", path),
	}
}

// must hold mu
func (s *FileStore) load() (fileDocument, error) {
	doc := fileDocument{Registers: map[string]schedule.Register{}}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("could not read %s: %w", s.path, err)
	}
	if doc.Registers == nil {
		doc.Registers = map[string]schedule.Register{}
	}
	return doc, nil
}

// must hold mu
func (s *FileStore) write(doc fileDocument) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("could not write %s: %w", s.path, err)
	}
	s.logger.Tracef("wrote %d registers", len(doc.Registers))
	return nil
}

func (s *FileStore) ListRegisters(ctx context.Context) ([]schedule.Register, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	registers := make([]schedule.Register, 0, len(doc.Registers))
	for _, register := range doc.Registers {
		registers = append(registers, register)
	}
	sortByName(registers)
	return registers, nil
}

func (s *FileStore) GetRegister(ctx context.Context, name string) (schedule.Register, error) {
	name = NormalizeName(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return schedule.Register{}, err
	}
	register, ok := doc.Registers[name]
	if !ok {
		return schedule.Register{}, fmt.Errorf("%w: %s", ErrRegisterNotFound, name)
	}
	return register, nil
}

func (s *FileStore) SaveRegister(ctx context.Context, register schedule.Register) (schedule.Register, error) {
	register, err := prepare(register)
	if err != nil {
		return register, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return register, err
	}
	doc.Registers[register.Name] = register
	return register, s.write(doc)
}

func (s *FileStore) UpdateRegister(
	ctx context.Context,
	name string,
	fn func(*schedule.Register) error,
) (schedule.Register, error) {
	name = NormalizeName(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return schedule.Register{}, err
	}
	register, ok := doc.Registers[name]
	if !ok {
		return schedule.Register{}, fmt.Errorf("%w: %s", ErrRegisterNotFound, name)
	}
	if err := fn(&register); err != nil {
		return schedule.Register{}, err
	}
	register.Name = name
	register, err = prepare(register)
	if err != nil {
		return register, err
	}
	doc.Registers[name] = register
	return register, s.write(doc)
}

func (s *FileStore) DeleteRegister(ctx context.Context, name string) error {
	name = NormalizeName(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Registers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrRegisterNotFound, name)
	}
	delete(doc.Registers, name)
	return s.write(doc)
}
