// Package worker consumes expense table events off the queue and keeps a
// running audit trail of table activity.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"expensetracker/internal/amqp"
	applog "expensetracker/internal/log"
)

// Stats is a snapshot of the audit counters.
type Stats struct {
	Created     int64
	Imported    int64
	Resets      int64
	RowsTouched int64
	LastVersion int64
	LastEventAt time.Time
}

// AuditWorker tallies expense events as they arrive.
type AuditWorker struct {
	mu     sync.Mutex
	stats  Stats
	logger *applog.Logger
}

func NewAuditWorker(logger *applog.Logger) *AuditWorker {
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentWorker})
	}
	return &AuditWorker{logger: logger}
}

// HandleEvent records one event. It is safe for concurrent use and is the
// handler wired into the AMQP consumer.
func (w *AuditWorker) HandleEvent(msg *amqp.ExpenseEventMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch msg.Kind {
	case amqp.EventCreated:
		w.stats.Created++
	case amqp.EventImported:
		w.stats.Imported++
	case amqp.EventReset:
		w.stats.Resets++
	default:
		return fmt.Errorf("unknown event kind %q", msg.Kind)
	}

	w.stats.RowsTouched += int64(msg.Count)
	if msg.Version > w.stats.LastVersion {
		w.stats.LastVersion = msg.Version
	}
	w.stats.LastEventAt = msg.Timestamp

	w.logger.Info("Expense event recorded",
		"kind", msg.Kind,
		"rows", msg.Count,
		"version", msg.Version)

	return nil
}

// Stats returns a copy of the current counters.
func (w *AuditWorker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// LogSummary emits the current counters, used by the periodic reporter.
func (w *AuditWorker) LogSummary(ctx context.Context) {
	st := w.Stats()
	w.logger.InfoContext(ctx, "Audit summary",
		"created", st.Created,
		"imported", st.Imported,
		"resets", st.Resets,
		"rows_touched", st.RowsTouched,
		"last_version", st.LastVersion)
}
