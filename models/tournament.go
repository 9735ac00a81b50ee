package models

import "time"

// TournamentFormat представляет форматы турнира, соответствующие ENUM в БД.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
)

type TournamentStatus string

const (
	TournamentStatusDraft        TournamentStatus = "draft"
	TournamentStatusRegistration TournamentStatus = "registration"
	TournamentStatusInProgress   TournamentStatus = "in_progress"
	TournamentStatusCompleted    TournamentStatus = "completed"
	TournamentStatusCancelled    TournamentStatus = "cancelled"
)

// Tournament представляет клубный турнир.
type Tournament struct {
	ID                   int              `json:"id" db:"id"`
	ClubID               int              `json:"club_id" db:"club_id"`
	Name                 string           `json:"name" db:"name"`
	Description          *string          `json:"description,omitempty" db:"description"`
	Format               TournamentFormat `json:"format" db:"format"`
	Status               TournamentStatus `json:"status" db:"status"`
	MaxTeams             int              `json:"max_teams" db:"max_teams"`
	EntryFee             *float64         `json:"entry_fee,omitempty" db:"entry_fee"`
	RegistrationDeadline *time.Time       `json:"registration_deadline,omitempty" db:"registration_deadline"`
	StartDate            time.Time        `json:"start_date" db:"start_date"`
	CourtCount           int              `json:"court_count" db:"court_count"`
	MatchDurationMinutes int              `json:"match_duration_minutes" db:"match_duration_minutes"`
	WinnerTeamID         *int             `json:"winner_team_id,omitempty" db:"winner_team_id"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Participants []TournamentParticipant `json:"participants,omitempty" db:"-"`
	Matches      []TournamentMatch       `json:"matches,omitempty" db:"-"`
}
