package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// Event types recorded by the auth flows.
const (
	EventLoginSuccess        = "login_success"
	EventLoginFail           = "login_fail"
	EventCompanyUnitSelected = "company_unit_selected"
	EventLogout              = "logout"
)

// Entry is a single activity log record.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Login     string `json:"login,omitempty"`
}

// Logger appends auth activity events to one JSON-lines file per day.
// Record never blocks the caller: events are handed to a background
// worker through a buffered channel and dropped (with a counter) when
// the buffer is full.
type Logger struct {
	dir     string
	events  chan Entry
	done    chan struct{}
	dropped atomic.Int64

	mu     sync.Mutex
	closed bool
}

// NewLogger creates the log directory if needed and starts the writer
// goroutine.
func NewLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audit log dir: %w", err)
	}

	l := &Logger{
		dir:    dir,
		events: make(chan Entry, 256),
		done:   make(chan struct{}),
	}
	go l.run()
	return l, nil
}

// Record queues an activity event. It returns immediately; a full
// buffer or an already-closed logger drops the event rather than
// delaying (or panicking in) the request that produced it.
func (l *Logger) Record(eventType, message, login string) {
	e := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Type:      eventType,
		Message:   message,
		Login:     login,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.dropped.Add(1)
		return
	}

	select {
	case l.events <- e:
	default:
		l.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded because the buffer
// was full.
func (l *Logger) Dropped() int64 {
	return l.dropped.Load()
}

// Close stops the worker after draining queued events. Later Record
// calls are counted as dropped.
func (l *Logger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.events)
	l.mu.Unlock()

	<-l.done
}

func (l *Logger) run() {
	defer close(l.done)
	for e := range l.events {
		if err := l.append(e); err != nil {
			slog.Error("failed to write audit event", "event", e.Type, "error", err)
		}
	}
}

func (l *Logger) append(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling audit entry: %w", err)
	}

	day := time.Now().UTC().Format("2006-01-02")
	path := filepath.Join(l.dir, day+".log")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}

	return nil
}
