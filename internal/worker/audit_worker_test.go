package worker

import (
	"testing"
	"time"

	"expensetracker/internal/amqp"
)

func TestAuditWorkerHandleEvent(t *testing.T) {
	w := NewAuditWorker(nil)

	events := []*amqp.ExpenseEventMessage{
		amqp.NewExpenseEventMessage(amqp.EventCreated, 1, 1),
		amqp.NewExpenseEventMessage(amqp.EventCreated, 1, 2),
		amqp.NewExpenseEventMessage(amqp.EventImported, 12, 3),
		amqp.NewExpenseEventMessage(amqp.EventReset, 0, 4),
	}
	for _, e := range events {
		if err := w.HandleEvent(e); err != nil {
			t.Fatalf("HandleEvent(%s) error = %v", e.Kind, err)
		}
	}

	st := w.Stats()
	if st.Created != 2 {
		t.Errorf("Created = %d, want 2", st.Created)
	}
	if st.Imported != 1 {
		t.Errorf("Imported = %d, want 1", st.Imported)
	}
	if st.Resets != 1 {
		t.Errorf("Resets = %d, want 1", st.Resets)
	}
	if st.RowsTouched != 14 {
		t.Errorf("RowsTouched = %d, want 14", st.RowsTouched)
	}
	if st.LastVersion != 4 {
		t.Errorf("LastVersion = %d, want 4", st.LastVersion)
	}
	if st.LastEventAt.IsZero() {
		t.Error("LastEventAt should be set")
	}
}

func TestAuditWorkerRejectsUnknownKind(t *testing.T) {
	w := NewAuditWorker(nil)

	msg := &amqp.ExpenseEventMessage{Kind: "mystery", Timestamp: time.Now()}
	if err := w.HandleEvent(msg); err == nil {
		t.Error("HandleEvent() with unknown kind should fail")
	}

	if st := w.Stats(); st.Created != 0 || st.Imported != 0 || st.Resets != 0 {
		t.Errorf("unknown event must not change counters: %+v", st)
	}
}

func TestAuditWorkerVersionNeverRegresses(t *testing.T) {
	w := NewAuditWorker(nil)

	_ = w.HandleEvent(amqp.NewExpenseEventMessage(amqp.EventCreated, 1, 9))
	_ = w.HandleEvent(amqp.NewExpenseEventMessage(amqp.EventCreated, 1, 3))

	if st := w.Stats(); st.LastVersion != 9 {
		t.Errorf("LastVersion = %d, want 9", st.LastVersion)
	}
}
