package data

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Loop-Hive/ScheduleX/schedule"
	log "github.com/sirupsen/logrus"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "registers.json"), log.WithField("test", t.Name()))
}

func TestFileStoreCrud(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)
	exerciseStore(t, ctx, store)
}

func TestFileStoreRejectsEmptyName(t *testing.T) {
	store := newTestFileStore(t)
	_, err := store.SaveRegister(context.Background(), schedule.Register{Name: "  "})
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
}

func TestFileStorePaddedNameKeepsExistingRegister(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)
	math := schedule.NewSubject("Math")
	math.Present, math.Total = 9, 10
	if _, err := store.SaveRegister(ctx, schedule.Register{Name: "Sem 5", Subjects: []schedule.Subject{math}}); err != nil {
		t.Fatal(err)
	}

	if _, err := store.GetRegister(ctx, "Sem 5 "); err != nil {
		t.Fatalf("expected Sem 5 to be found by its padded name, got %v", err)
	}
	got, err := store.GetRegister(ctx, "Sem 5")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Subjects) != 1 || got.Subjects[0].Present != 9 {
		t.Errorf("Sem 5 lost its subjects: %+v", got)
	}
}

func TestSaveRegisterLeavesCallerSubjects(t *testing.T) {
	store := newTestFileStore(t)
	subjects := []schedule.Subject{{Title: "Math"}}
	if _, err := store.SaveRegister(context.Background(), schedule.Register{Name: "Sem", Subjects: subjects}); err != nil {
		t.Fatal(err)
	}
	if subjects[0].Schedule != nil {
		t.Errorf("saving should not write into the caller's subjects, got %+v", subjects[0])
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	store := newTestFileStore(t)
	if err := os.WriteFile(store.path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ListRegisters(context.Background()); err == nil {
		t.Error("expected an error reading a corrupt file")
	}
}

func TestFileStoreConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)
	register := schedule.Register{Name: "Sem", Subjects: []schedule.Subject{schedule.NewSubject("Math")}}
	if _, err := store.SaveRegister(ctx, register); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.UpdateRegister(ctx, "Sem", func(r *schedule.Register) error {
				r.Subjects[0].Mark(true)
				return nil
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, err := store.GetRegister(ctx, "Sem")
	if err != nil {
		t.Fatal(err)
	}
	if got.Subjects[0].Total != 20 || got.Subjects[0].Present != 20 {
		t.Errorf("lost updates, got %d/%d", got.Subjects[0].Present, got.Subjects[0].Total)
	}
}

// exerciseStore runs the behaviour every Store implementation shares
func exerciseStore(t *testing.T, ctx context.Context, store Store) {
	t.Helper()

	registers, err := store.ListRegisters(ctx)
	if err != nil || len(registers) != 0 {
		t.Fatalf("expected an empty store, got %v %v", registers, err)
	}

	math := schedule.NewSubject("Math")
	math.ID = 1
	room := "B12"
	math.Schedule.Add(schedule.Monday, schedule.TimeSlot{Start: "09:00", End: "10:00", Room: &room})
	saved, err := store.SaveRegister(ctx, schedule.Register{Name: "Semester 5", Subjects: []schedule.Subject{math}})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" {
		t.Fatal("a saved register should get an id")
	}
	if _, err := store.SaveRegister(ctx, schedule.Register{Name: "Clubs"}); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetRegister(ctx, "Semester 5")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != saved.ID || len(got.Subjects) != 1 || got.Subjects[0].Schedule[schedule.Monday][0].RoomName() != "B12" {
		t.Errorf("register did not survive storage: %+v", got)
	}

	registers, err = store.ListRegisters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(registers) != 2 || registers[0].Name != "Clubs" || registers[1].Name != "Semester 5" {
		t.Errorf("expected registers ordered by name, got %+v", registers)
	}

	updated, err := store.UpdateRegister(ctx, "Semester 5", func(r *schedule.Register) error {
		r.Subjects[0].Mark(false)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Subjects[0].Total != 1 || updated.ID != saved.ID {
		t.Errorf("unexpected update result %+v", updated)
	}

	if updated.Subjects[0].Total != 1 {
		t.Fatalf("unexpected update result %+v", updated)
	}

	abort := errors.New("abort")
	_, err = store.UpdateRegister(ctx, "Semester 5", func(r *schedule.Register) error {
		r.Subjects = nil
		return abort
	})
	if !errors.Is(err, abort) {
		t.Errorf("expected the callback error, got %v", err)
	}
	got, _ = store.GetRegister(ctx, "Semester 5")
	if len(got.Subjects) != 1 {
		t.Error("an aborted update should not be saved")
	}

	// names are matched after trimming, so a padded name never shadows a stored one
	if padded, err := store.GetRegister(ctx, " Semester 5 "); err != nil || padded.ID != saved.ID {
		t.Errorf("expected the padded name to find Semester 5, got %+v %v", padded, err)
	}
	if _, err := store.UpdateRegister(ctx, "Semester 5 ", func(r *schedule.Register) error {
		r.Subjects[0].Mark(true)
		return nil
	}); err != nil {
		t.Errorf("expected the padded name to update Semester 5, got %v", err)
	}
	registers, _ = store.ListRegisters(ctx)
	if len(registers) != 2 {
		t.Errorf("a padded name should not add a register, got %+v", registers)
	}

	if err := store.DeleteRegister(ctx, " Clubs"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetRegister(ctx, "Clubs"); !errors.Is(err, ErrRegisterNotFound) {
		t.Errorf("expected ErrRegisterNotFound, got %v", err)
	}
	if err := store.DeleteRegister(ctx, "Clubs"); !errors.Is(err, ErrRegisterNotFound) {
		t.Errorf("expected ErrRegisterNotFound deleting twice, got %v", err)
	}
	if _, err := store.UpdateRegister(ctx, "Clubs", func(*schedule.Register) error { return nil }); !errors.Is(err, ErrRegisterNotFound) {
		t.Errorf("expected ErrRegisterNotFound updating a missing register, got %v", err)
	}
}
