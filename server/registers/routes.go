package serverregisters

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Loop-Hive/ScheduleX/data"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type registerKey int

const RegisterKey registerKey = iota

func PopulateRegisterRoutes(r *chi.Router, store data.Store, logger *log.Entry) {
	h := registerHandler{
		store:  store,
		logger: logger.WithField("routes", "registers"),
	}

	(*r).Get("/", h.listRegisters)
	(*r).Post("/", h.createRegister)
	(*r).Route("/{registerName}", func(r chi.Router) {
		r.Use(h.verifyRegister)
		r.Get("/", h.getRegister)
		r.Delete("/", h.deleteRegister)
		r.Post("/import", h.importSchedule)
		r.Post("/subjects/{subjectID}/attendance", h.recordAttendance)
		r.Get("/timetable", h.timetableHTML)
		r.Get("/timetable.xlsx", h.timetableXLSX)
		r.Get("/timetable.ics", h.timetableICS)
	})
}

func registerName(r *http.Request) string {
	raw := chi.URLParam(r, "registerName")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// loads the register named in the path so handlers can read it from the context
func (h *registerHandler) verifyRegister(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := registerName(r)
		register, err := h.store.GetRegister(r.Context(), name)
		if errors.Is(err, data.ErrRegisterNotFound) {
			http.Error(w, "Register not found", http.StatusNotFound)
			return
		}
		if err != nil {
			h.logger.WithField("register", name).Error("Could not get register: ", err)
			http.Error(w, http.StatusText(500), 500)
			return
		}
		ctx := context.WithValue(r.Context(), RegisterKey, register)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
