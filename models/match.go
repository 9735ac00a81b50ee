package models

import "time"

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCancelled  MatchStatus = "cancelled"
)

// Match — матч лестницы, созданный при принятии вызова.
//
// Матч становится completed только после подтверждения счёта пользователем,
// отличным от отправившего (ScoreConfirmedBy != ScoreSubmittedBy).
// Спор (ScoreDisputed) обнуляет все поля счёта и возвращает матч
// в in_progress для повторной подачи.
type Match struct {
	ID               int         `json:"id" db:"id"`
	ChallengerTeamID int         `json:"challenger_team_id" db:"challenger_team_id"`
	ChallengedTeamID int         `json:"challenged_team_id" db:"challenged_team_id"`
	CategoryID       *int        `json:"category_id,omitempty" db:"category_id"`
	Status           MatchStatus `json:"status" db:"status"`

	// Геймы по сетам, в порядке сыгранных сетов (2–3 элемента).
	SetScoresChallenger []int64 `json:"set_scores_challenger,omitempty" db:"set_scores_challenger"`
	SetScoresChallenged []int64 `json:"set_scores_challenged,omitempty" db:"set_scores_challenged"`

	SetsWonChallenger *int `json:"sets_won_challenger,omitempty" db:"sets_won_challenger"`
	SetsWonChallenged *int `json:"sets_won_challenged,omitempty" db:"sets_won_challenged"`
	WinnerTeamID      *int `json:"winner_team_id,omitempty" db:"winner_team_id"`

	ScoreSubmittedBy *int    `json:"score_submitted_by,omitempty" db:"score_submitted_by"`
	ScoreConfirmedBy *int    `json:"score_confirmed_by,omitempty" db:"score_confirmed_by"`
	ScoreDisputed    bool    `json:"score_disputed" db:"score_disputed"`
	DisputeReason    *string `json:"dispute_reason,omitempty" db:"dispute_reason"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	Venue       *string    `json:"venue,omitempty" db:"venue"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
