package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/Loop-Hive/ScheduleX/timetable"
	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// MaxDocumentSize caps what is read from a file or url
const MaxDocumentSize = 5 << 20

type Format int

const (
	FormatCSV Format = iota
	FormatICS
)

func (f Format) String() string {
	if f == FormatICS {
		return "ics"
	}
	return "csv"
}

// Document is schedule text read from a file or url. Html tables have
// already been turned into csv.
type Document struct {
	Location string
	Format   Format
	Text     string
}

// Parse reads the subjects out of the document
func (d Document) Parse(loc *time.Location) (schedule.ImportResult, error) {
	if d.Format == FormatICS {
		return timetable.ParseICS(strings.NewReader(d.Text), loc)
	}
	return schedule.ParseCSV(d.Text), nil
}

type Options struct {
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// starting requests per second, the limiter adapts from there
	RateLimit rate.Limit
}

func DefaultOptions() Options {
	return Options{
		Retries:   3,
		RateLimit: 5,
	}
}

type Fetcher struct {
	client *http.Client
	logger *log.Entry
}

func NewFetcher(logger *log.Entry, opts Options) *Fetcher {
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultOptions().RateLimit
	}
	limiter := NewAdaptiveRateLimiter(opts.RateLimit, 1, opts.RateLimit)
	return &Fetcher{
		client: NewRetryClientWithLimiter(logger, limiter, RetryOptions{
			Retries:      opts.Retries,
			RetryWaitMin: opts.RetryWaitMin,
			RetryWaitMax: opts.RetryWaitMax,
		}),
		logger: logger,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, location string) (Document, error) {
	logger := f.logger.WithField("url", location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return Document{}, err
	}
	req.Header.Set("Accept", "text/csv, text/calendar, text/html;q=0.8, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Warn("fetch failed: ", err)
		return Document{}, errors.Join(ErrTemporaryNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Document{}, fmt.Errorf("%w: %s from %s", ErrBadResponse, resp.Status, location)
	}

	body, err := readLimited(resp.Body)
	if errors.Is(err, ErrDocumentTooLarge) {
		return Document{}, err
	}
	if err != nil {
		return Document{}, errors.Join(ErrTemporaryNetworkFailure, err)
	}
	logger.WithField("bytes", len(body)).Debug("fetched document")

	return NewDocument(location, resp.Header.Get("Content-Type"), body)
}

func readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: over %d bytes", ErrDocumentTooLarge, MaxDocumentSize)
	}
	return body, nil
}

func ReadFile(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer file.Close()

	body, err := readLimited(file)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	return NewDocument(path, contentType, body)
}

// Open reads location as a url when it has an http or https scheme and as a
// file path otherwise. "-" is standard input.
func Open(ctx context.Context, fetcher *Fetcher, location string) (Document, error) {
	if location == "-" {
		body, err := readLimited(os.Stdin)
		if err != nil {
			return Document{}, err
		}
		return NewDocument("stdin", "", body)
	}
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return fetcher.Fetch(ctx, location)
	}
	return ReadFile(location)
}

// NewDocument classifies body as csv or ics and converts html tables to csv.
// contentType may be empty.
func NewDocument(location, contentType string, body []byte) (Document, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, []byte("\ufeff")))

	switch {
	case mediaType == "text/calendar" || bytes.HasPrefix(trimmed, []byte("BEGIN:VCALENDAR")):
		return Document{Location: location, Format: FormatICS, Text: string(body)}, nil
	case mediaType == "text/html" || bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")) ||
		bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<html")):
		text, err := TableToCSV(bytes.NewReader(body))
		if err != nil {
			return Document{}, fmt.Errorf("%s: %w", location, err)
		}
		return Document{Location: location, Format: FormatCSV, Text: text}, nil
	default:
		return Document{Location: location, Format: FormatCSV, Text: string(body)}, nil
	}
}

// TableToCSV converts the first html table into csv text, one line per row.
// Rows whose cells are all empty become blank lines.
func TableToCSV(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return "", ErrNoTable
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		empty := true
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			text := strings.Join(strings.Fields(cell.Text()), " ")
			if text != "" {
				empty = false
			}
			cells = append(cells, text)
		})
		if empty {
			cells = nil
		}
		// writes to a bytes.Buffer cannot fail
		_ = w.Write(cells)
	})
	w.Flush()
	return buf.String(), w.Error()
}
