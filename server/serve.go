package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Loop-Hive/ScheduleX/config"
	"github.com/Loop-Hive/ScheduleX/data"
	serverregisters "github.com/Loop-Hive/ScheduleX/server/registers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func NewRouter(cfg config.Config, store data.Store, hub *LogHub, logger *log.Entry) http.Handler {
	r := chi.NewRouter()
	cors := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum age for preflight requests
	})
	r.Use(cors.Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	if cfg.RateLimit > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))))
	}

	h := scheduleHandler{store: store, logger: logger}
	r.Post("/validate", h.validate)
	r.Get("/export.csv", h.exportCSV)
	r.Route("/registers", func(r chi.Router) {
		serverregisters.PopulateRegisterRoutes(&r, store, logger)
	})

	if hub != nil {
		lh := logHandler{hub: hub, logger: logger}
		r.Get("/logs", lh.logsView)
		r.Get("/logs/watch", lh.watchLogs)
	}
	return r
}

// one bucket for the whole server, it only protects a single user's instance
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Serve blocks until ctx is done and then drains open requests
func Serve(ctx context.Context, cfg config.Config, store data.Store, hub *LogHub, logger *log.Entry) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           NewRouter(cfg, store, hub, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("Running server")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
