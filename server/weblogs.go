package server

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/Loop-Hive/ScheduleX/server/components"
	"github.com/gorilla/websocket"
	"github.com/robert-nix/ansihtml"
	log "github.com/sirupsen/logrus"
)

// the log view is for whoever runs the server, a client that drops its
// websocket and comes back still sees the recent history

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// LogHub is a logrus hook keeping the most recent entries in memory and
// fanning new ones out to websocket watchers
type LogHub struct {
	mu          sync.Mutex
	size        int
	lines       []string
	subscribers map[chan string]struct{}
	formatter   log.Formatter
}

func NewLogHub(size int) *LogHub {
	return &LogHub{
		size:        size,
		subscribers: map[chan string]struct{}{},
		formatter:   &log.TextFormatter{ForceColors: true, FullTimestamp: true},
	}
}

func (h *LogHub) Levels() []log.Level {
	return log.AllLevels
}

// Fire must not log, the hook would call itself
func (h *LogHub) Fire(entry *log.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	rendered := string(ansihtml.ConvertToHTML(bytes.TrimRight(line, "\n")))

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = append(h.lines, rendered)
	if len(h.lines) > h.size {
		h.lines = h.lines[len(h.lines)-h.size:]
	}
	for ch := range h.subscribers {
		// a slow watcher misses lines rather than blocking logging
		select {
		case ch <- rendered:
		default:
		}
	}
	return nil
}

// Lines returns the retained entries already rendered as html
func (h *LogHub) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string{}, h.lines...)
}

func (h *LogHub) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 64)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subscribers, ch)
		h.mu.Unlock()
	}
}

type logHandler struct {
	hub    *LogHub
	logger *log.Entry
}

func (h *logHandler) logsView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.LogsPage(h.hub.Lines()).Render(r.Context(), w); err != nil {
		h.logger.Error("Could not render logs page ", err)
	}
}

func (h *logHandler) watchLogs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request
		return
	}
	defer conn.Close()

	lines, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	// the only thing read from a watcher is its close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case line := <-lines:
			var message bytes.Buffer
			if err := components.LogLine(line).Render(r.Context(), &message); err != nil {
				h.logger.Error("Could not render log line ", err)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message.Bytes()); err != nil {
				h.logger.Debug("log watcher went away: ", err)
				return
			}
		}
	}
}
