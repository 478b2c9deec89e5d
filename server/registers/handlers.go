package serverregisters

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Loop-Hive/ScheduleX/data"
	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/Loop-Hive/ScheduleX/source"
	"github.com/Loop-Hive/ScheduleX/timetable"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type registerHandler struct {
	store  data.Store
	logger *log.Entry
}

type registerSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Subjects   int     `json:"subjects"`
	Slots      int     `json:"slots"`
	Present    int     `json:"present"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type subjectView struct {
	schedule.Subject
	Status schedule.AttendanceStatus `json:"status"`
}

type registerView struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Subjects []subjectView   `json:"subjects"`
	Summary  registerSummary `json:"summary"`
}

type importResponse struct {
	Result    schedule.ImportResult `json:"result"`
	Warnings  []string              `json:"warnings"`
	Committed bool                  `json:"committed"`
	Register  *schedule.Register    `json:"register,omitempty"`
}

func summarize(register schedule.Register) registerSummary {
	total := register.Summary()
	slots := 0
	for _, subject := range register.Subjects {
		slots += subject.Schedule.SlotCount()
	}
	return registerSummary{
		ID:         register.ID,
		Name:       register.Name,
		Subjects:   len(register.Subjects),
		Slots:      slots,
		Present:    total.Present,
		Total:      total.Total,
		Percentage: total.Percentage(),
	}
}

func view(register schedule.Register) registerView {
	subjects := make([]subjectView, len(register.Subjects))
	for i, subject := range register.Subjects {
		subjects[i] = subjectView{Subject: subject, Status: subject.Status()}
	}
	return registerView{
		ID:       register.ID,
		Name:     register.Name,
		Subjects: subjects,
		Summary:  summarize(register),
	}
}

func (h *registerHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Could not marshal response: ", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func registerFrom(r *http.Request) schedule.Register {
	return r.Context().Value(RegisterKey).(schedule.Register)
}

func (h *registerHandler) listRegisters(w http.ResponseWriter, r *http.Request) {
	registers, err := h.store.ListRegisters(r.Context())
	if err != nil {
		h.logger.Error("Could not list registers: ", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	summaries := make([]registerSummary, len(registers))
	for i, register := range registers {
		summaries[i] = summarize(register)
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *registerHandler) createRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&body); err != nil {
		http.Error(w, "Invalid json body", http.StatusBadRequest)
		return
	}

	body.Name = data.NormalizeName(body.Name)
	_, err := h.store.GetRegister(r.Context(), body.Name)
	if err == nil {
		http.Error(w, "Register already exists", http.StatusConflict)
		return
	}
	if !errors.Is(err, data.ErrRegisterNotFound) {
		h.logger.Error("Could not check register: ", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	register, err := h.store.SaveRegister(r.Context(), schedule.Register{Name: body.Name})
	if errors.Is(err, data.ErrInvalidName) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("Could not create register: ", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	h.logger.WithField("register", register.Name).Info("Created register")
	h.writeJSON(w, http.StatusCreated, view(register))
}

func (h *registerHandler) getRegister(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, view(registerFrom(r)))
}

func (h *registerHandler) deleteRegister(w http.ResponseWriter, r *http.Request) {
	register := registerFrom(r)
	err := h.store.DeleteRegister(r.Context(), register.Name)
	if errors.Is(err, data.ErrRegisterNotFound) {
		http.Error(w, "Register not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Could not delete register: ", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	h.logger.WithField("register", register.Name).Info("Deleted register")
	w.WriteHeader(http.StatusNoContent)
}

func queryBool(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s query param", key)
	}
	return value, nil
}

// ReadDocument reads a request body the same way a file or url is read
func ReadDocument(r *http.Request, loc *time.Location) (schedule.ImportResult, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, source.MaxDocumentSize+1))
	if err != nil {
		return schedule.ImportResult{}, err
	}
	if len(body) > source.MaxDocumentSize {
		return schedule.ImportResult{}, source.ErrDocumentTooLarge
	}
	doc, err := source.NewDocument("request", r.Header.Get("Content-Type"), body)
	if err != nil {
		return schedule.ImportResult{}, err
	}
	return doc.Parse(loc)
}

func (h *registerHandler) importSchedule(w http.ResponseWriter, r *http.Request) {
	commit, err := queryBool(r, "commit")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	force, err := queryBool(r, "force")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := ReadDocument(r, time.Local)
	if errors.Is(err, source.ErrDocumentTooLarge) {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	register := registerFrom(r)
	logger := h.logger.WithFields(log.Fields{"register": register.Name, "subjects": len(result.Subjects)})
	merged, warnings := data.ApplyImport(register, result.Subjects)
	response := importResponse{Result: result, Warnings: warnings}
	if !commit {
		response.Register = &merged
		h.writeJSON(w, http.StatusOK, response)
		return
	}

	if (!result.Success || len(warnings) > 0) && !force {
		logger.WithField("errors", len(result.Errors)+len(warnings)).Info("Refused import with problems")
		h.writeJSON(w, http.StatusConflict, response)
		return
	}

	saved, err := h.store.UpdateRegister(r.Context(), register.Name, func(current *schedule.Register) error {
		*current, _ = data.ApplyImport(*current, result.Subjects)
		return nil
	})
	if err != nil {
		logger.Error("Could not save import: ", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	logger.Info("Imported schedule")
	response.Committed = true
	response.Register = &saved
	h.writeJSON(w, http.StatusOK, response)
}

var errSubjectNotFound = errors.New("subject not found")

func (h *registerHandler) recordAttendance(w http.ResponseWriter, r *http.Request) {
	subjectID, err := strconv.Atoi(chi.URLParam(r, "subjectID"))
	if err != nil {
		http.Error(w, "Invalid subject id", http.StatusBadRequest)
		return
	}
	var body struct {
		Present bool `json:"present"`
		Undo    bool `json:"undo"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&body); err != nil {
		http.Error(w, "Invalid json body", http.StatusBadRequest)
		return
	}

	register := registerFrom(r)
	var updated schedule.Subject
	_, err = h.store.UpdateRegister(r.Context(), register.Name, func(current *schedule.Register) error {
		for i := range current.Subjects {
			if current.Subjects[i].ID != subjectID {
				continue
			}
			if body.Undo {
				current.Subjects[i].Undo(body.Present)
			} else {
				current.Subjects[i].Mark(body.Present)
			}
			updated = current.Subjects[i]
			return nil
		}
		return errSubjectNotFound
	})
	if errors.Is(err, errSubjectNotFound) || errors.Is(err, data.ErrRegisterNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Could not record attendance: ", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	h.writeJSON(w, http.StatusOK, subjectView{Subject: updated, Status: updated.Status()})
}

func (h *registerHandler) timetableHTML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := timetable.HTML(registerFrom(r)).Render(r.Context(), w); err != nil {
		h.logger.Error("Could not render timetable: ", err)
	}
}

func (h *registerHandler) timetableXLSX(w http.ResponseWriter, r *http.Request) {
	register := registerFrom(r)
	buf, err := timetable.XLSX([]schedule.Register{register})
	if err != nil {
		h.logger.Error("Could not build workbook: ", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", register.Name+".xlsx"))
	w.Write(buf.Bytes())
}

func (h *registerHandler) timetableICS(w http.ResponseWriter, r *http.Request) {
	loc := time.Local
	if tz := r.URL.Query().Get("tz"); tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			http.Error(w, "Invalid tz query param", http.StatusBadRequest)
			return
		}
	}
	weekOf := time.Now()
	if week := r.URL.Query().Get("week"); week != "" {
		var err error
		if weekOf, err = time.ParseInLocation(time.DateOnly, week, loc); err != nil {
			http.Error(w, "Invalid week query param, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	register := registerFrom(r)
	calendar, err := timetable.ICS([]schedule.Register{register}, weekOf, loc)
	if err != nil {
		h.logger.Error("Could not build calendar: ", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", register.Name+".ics"))
	w.Write([]byte(calendar))
}
