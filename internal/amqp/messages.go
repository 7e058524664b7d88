package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nutrilog/internal/core"
)

// Event types carried by DayChangedMessage.
const (
	EventMealCreated = "meal.created"
	EventMealUpdated = "meal.updated"
	EventMealDeleted = "meal.deleted"
	EventDayCopied   = "day.copied"
)

// DayChangedMessage tells consumers that the ledger of Date changed.
// It carries no meal data; consumers re-read the day from the store.
type DayChangedMessage struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Date      core.Date `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDayChangedMessage creates a message with a fresh id.
func NewDayChangedMessage(eventType string, date core.Date) *DayChangedMessage {
	return &DayChangedMessage{
		ID:        uuid.NewString(),
		Type:      eventType,
		Date:      date,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DayChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DayChangedMessageFromJSON decodes a message and checks its date.
func DayChangedMessageFromJSON(data []byte) (*DayChangedMessage, error) {
	var msg DayChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Date.Validate(); err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}
	return &msg, nil
}
