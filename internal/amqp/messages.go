package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the expense events queue.
const (
	EventCreated  = "created"
	EventImported = "imported"
	EventReset    = "reset"
)

// ExpenseEventMessage describes one mutation of the expense table. It is
// intentionally small; consumers that need the rows fetch them from the
// backend using the table version.
type ExpenseEventMessage struct {
	Kind      string    `json:"kind"`
	Count     int       `json:"count"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEventMessage creates an event for kind touching count rows.
func NewExpenseEventMessage(kind string, count int, version int64) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Kind:      kind,
		Count:     count,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON creates a message from JSON bytes
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
