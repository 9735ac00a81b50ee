package models

import (
	"encoding/json"
	"time"
)

// StatAuditRecord — запись журнала административных правок рейтинга.
// Notes обязательны: каждая ручная правка должна быть обоснована.
type StatAuditRecord struct {
	ID        int             `json:"id" db:"id"`
	ActorID   int             `json:"actor_id" db:"actor_id"`
	Action    string          `json:"action" db:"action"`
	Target    string          `json:"target" db:"target"`
	OldValues json.RawMessage `json:"old_values" db:"old_values"`
	NewValues json.RawMessage `json:"new_values" db:"new_values"`
	Notes     string          `json:"notes" db:"notes"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
