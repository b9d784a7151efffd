package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date used for log keys.
const DateLayout = "2006-01-02"

// LogCollection returns the per-teacher collection holding class logs.
func LogCollection(teacherID string) string {
	return fmt.Sprintf("users/%s/class_logs", teacherID)
}

// DailyLog records what was taught in one schedule entry on one date.
type DailyLog struct {
	ID           string     `json:"-"`
	UserID       string     `json:"userId"`
	PeriodID     string     `json:"periodId"`
	Date         string     `json:"date"`
	Topic        string     `json:"topic"`
	Activities   string     `json:"activities"`
	Observations string     `json:"observations"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	LastEdited   *time.Time `json:"lastEdited,omitempty"`
}

// Completed is true only when a topic was written.
func (l DailyLog) Completed() bool {
	return strings.TrimSpace(l.Topic) != ""
}

// Key identifies the log by schedule entry and date.
func (l DailyLog) Key() LogKey {
	return LogKey{PeriodID: l.PeriodID, Date: l.Date}
}

// LogKey is the unique (schedule entry, calendar date) pair of a log.
type LogKey struct {
	PeriodID string
	Date     string
}

// LogIndex looks logs up by key. A nil index behaves as empty.
type LogIndex map[LogKey]DailyLog

// NewLogIndex indexes logs; later duplicates win.
func NewLogIndex(logs []DailyLog) LogIndex {
	idx := make(LogIndex, len(logs))
	for _, log := range logs {
		idx[log.Key()] = log
	}
	return idx
}

// Lookup returns the log for an entry on a date.
func (idx LogIndex) Lookup(periodID, date string) (DailyLog, bool) {
	log, ok := idx[LogKey{PeriodID: periodID, Date: date}]
	return log, ok
}
