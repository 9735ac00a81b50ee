package models

import "time"

// Team представляет команду клуба (пара игроков в падел).
type Team struct {
	ID           int        `json:"id" db:"id"`
	ClubID       int        `json:"club_id" db:"club_id"`
	Name         string     `json:"name" db:"name"`
	IsFrozen     bool       `json:"is_frozen" db:"is_frozen"`
	FrozenUntil  *time.Time `json:"frozen_until,omitempty" db:"frozen_until"`
	FrozenReason *string    `json:"frozen_reason,omitempty" db:"frozen_reason"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Frozen сообщает, заморожена ли команда на данный момент.
// Заморозка с истёкшим frozen_until больше не действует.
func (t *Team) Frozen(now time.Time) bool {
	if !t.IsFrozen {
		return false
	}
	if t.FrozenUntil != nil && now.After(*t.FrozenUntil) {
		return false
	}
	return true
}
