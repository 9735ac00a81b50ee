package models

import "time"

type ChallengeStatus string

const (
	ChallengeStatusPending   ChallengeStatus = "pending"
	ChallengeStatusAccepted  ChallengeStatus = "accepted"
	ChallengeStatusDeclined  ChallengeStatus = "declined"
	ChallengeStatusCancelled ChallengeStatus = "cancelled"
	ChallengeStatusExpired   ChallengeStatus = "expired"
)

// Challenge — вызов одной команды другой в рамках категории лестницы.
// accepted — терминальный статус для самого вызова: дальше жизненный цикл
// продолжается в созданном матче (MatchID).
type Challenge struct {
	ID                int             `json:"id" db:"id"`
	CategoryID        *int            `json:"category_id,omitempty" db:"category_id"`
	ChallengerTeamID  int             `json:"challenger_team_id" db:"challenger_team_id"`
	ChallengedTeamID  int             `json:"challenged_team_id" db:"challenged_team_id"`
	Status            ChallengeStatus `json:"status" db:"status"`
	Message           *string         `json:"message,omitempty" db:"message"`
	DeclineReason     *string         `json:"decline_reason,omitempty" db:"decline_reason"`
	ExpiresAt         time.Time       `json:"expires_at" db:"expires_at"`
	MatchID           *int            `json:"match_id,omitempty" db:"match_id"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}
