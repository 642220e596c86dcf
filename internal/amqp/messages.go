package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEventMessage announces a committed ledger or goal mutation. It is
// intentionally thin: the export worker re-reads the full state from the
// store, so a lost field never means lost data.
type LedgerEventMessage struct {
	Kind      string    `json:"kind"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(kind, entityID string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:      kind,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
