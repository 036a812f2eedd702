package store

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

// MaxErrorLogs is how many entries the diagnostic log keeps.
const MaxErrorLogs = 100

// ErrorLog is one entry of the diagnostic log.
type ErrorLog struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Stack     string    `json:"stack"`
	Context   string    `json:"context"`
}

// LogStats summarizes the diagnostic log.
type LogStats struct {
	Total   int
	Last24h int
}

// Record prepends err to the diagnostic log, keeping the newest MaxErrorLogs
// entries. Failures to persist the log are only reported through slog.
func (s *Store) Record(err error, context string) {
	if err == nil {
		return
	}
	slog.Error("recorded error", "context", context, "error", err)

	logs, lerr := s.Logs()
	if lerr != nil {
		slog.Warn("load error log", "error", lerr)
		logs = nil
	}
	entry := ErrorLog{
		Timestamp: s.now().UTC(),
		Message:   err.Error(),
		Stack:     chain(err),
		Context:   context,
	}
	logs = append([]ErrorLog{entry}, logs...)
	if len(logs) > MaxErrorLogs {
		logs = logs[:MaxErrorLogs]
	}
	if serr := s.SetJSON(KeyErrorLogs, logs); serr != nil {
		slog.Warn("save error log", "error", serr)
	}
}

// Logs returns the diagnostic log, newest first.
func (s *Store) Logs() ([]ErrorLog, error) {
	var logs []ErrorLog
	if _, err := s.GetJSON(KeyErrorLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// ClearLogs empties the diagnostic log.
func (s *Store) ClearLogs() error {
	return s.Remove(KeyErrorLogs)
}

// Stats counts all entries and those recorded within 24 hours of now.
func (s *Store) Stats(now time.Time) (LogStats, error) {
	logs, err := s.Logs()
	if err != nil {
		return LogStats{}, err
	}
	dayAgo := now.Add(-24 * time.Hour)
	stats := LogStats{Total: len(logs)}
	for _, l := range logs {
		if l.Timestamp.After(dayAgo) {
			stats.Last24h++
		}
	}
	return stats, nil
}

// chain lists the messages of err and everything it wraps, outermost first.
func chain(err error) string {
	var lines []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}
