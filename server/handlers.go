package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Loop-Hive/ScheduleX/data"
	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/Loop-Hive/ScheduleX/source"
	serverregisters "github.com/Loop-Hive/ScheduleX/server/registers"
	log "github.com/sirupsen/logrus"
)

type scheduleHandler struct {
	store  data.Store
	logger *log.Entry
}

type validateResponse struct {
	Result   schedule.ImportResult `json:"result"`
	Warnings []string              `json:"warnings"`
}

func (h *scheduleHandler) validate(w http.ResponseWriter, r *http.Request) {
	result, err := serverregisters.ReadDocument(r, time.Local)
	if errors.Is(err, source.ErrDocumentTooLarge) {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := json.Marshal(validateResponse{
		Result:   result,
		Warnings: schedule.Validate(result.Subjects),
	})
	if err != nil {
		h.logger.Error("Could not marshal validation: ", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// exports the registers named by repeated register params, every register when there are none
func (h *scheduleHandler) exportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	names := r.URL.Query()["register"]

	var registers []schedule.Register
	if len(names) == 0 {
		all, err := h.store.ListRegisters(ctx)
		if err != nil {
			h.logger.Error("Could not list registers: ", err)
			http.Error(w, http.StatusText(500), 500)
			return
		}
		registers = all
	}
	for _, name := range names {
		register, err := h.store.GetRegister(ctx, name)
		if errors.Is(err, data.ErrRegisterNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			h.logger.Error("Could not get register: ", err)
			http.Error(w, http.StatusText(500), 500)
			return
		}
		registers = append(registers, register)
	}

	csv := schedule.ExportCSV(registers)
	if csv == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.csv"`)
	w.Write([]byte(csv))
}
