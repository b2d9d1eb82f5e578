package amqp

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"financas/internal/core"
)

// ChangeMessage tells consumers which collections changed. It carries no
// record data; consumers re-read the ledger.
type ChangeMessage struct {
	Collections []string  `json:"collections"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewChangeMessage creates a change message stamped with the current time.
func NewChangeMessage(collections ...string) *ChangeMessage {
	return &ChangeMessage{
		Collections: collections,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes a message and rejects unknown collections.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	for _, c := range msg.Collections {
		if !slices.Contains(core.Collections, c) {
			return nil, fmt.Errorf("unknown collection %q", c)
		}
	}
	return &msg, nil
}
