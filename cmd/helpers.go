package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/Loop-Hive/ScheduleX/source"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// readSchedule opens a file, url or "-" and parses whatever schedule it holds
func readSchedule(ctx context.Context, logger *log.Entry, location string) (schedule.ImportResult, error) {
	opts := source.DefaultOptions()
	opts.Retries = cfg.FetchRetries
	if cfg.RateLimit > 0 {
		opts.RateLimit = rate.Limit(cfg.RateLimit)
	}
	fetcher := source.NewFetcher(logger, opts)

	doc, err := source.Open(ctx, fetcher, location)
	if err != nil {
		return schedule.ImportResult{}, err
	}
	logger.WithFields(log.Fields{"location": doc.Location, "format": doc.Format}).Debug("read document")
	return doc.Parse(time.Local)
}

func printProblems(w io.Writer, result schedule.ImportResult, warnings []string) {
	for _, e := range result.Errors {
		fmt.Fprintln(w, "error:", e)
	}
	for _, warning := range warnings {
		fmt.Fprintln(w, "warning:", warning)
	}
}

// writeOutput writes to the named file, or stdout when the name is empty or "-"
func writeOutput(stdout io.Writer, path string, content []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(content)
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

func findSubject(register *schedule.Register, ref string) (*schedule.Subject, error) {
	for i := range register.Subjects {
		subject := &register.Subjects[i]
		if strings.EqualFold(subject.Title, ref) || fmt.Sprint(subject.ID) == ref {
			return subject, nil
		}
	}
	return nil, fmt.Errorf("no subject %q in register %s", ref, register.Name)
}
