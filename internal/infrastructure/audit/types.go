package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is one append-only journal entry: who did what to which record.
type Event struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	Ref       string    `json:"ref,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	storeKey []byte
}

func (e *Event) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
}
