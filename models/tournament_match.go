package models

import "time"

type TournamentStage string

const (
	StageGroup    TournamentStage = "group"
	StageKnockout TournamentStage = "knockout"
)

// TournamentMatch — матч турнира (групповой или на вылет).
//
// В матчах на вылет слоты команд либо заполняются при посеве (первый раунд),
// либо победителем предыдущего раунда: нечётный MatchNumber попадает в
// Team1ID, чётный — в Team2ID матча nextRound[(MatchNumber-1)/2].
type TournamentMatch struct {
	ID           int             `json:"id" db:"id"`
	TournamentID int             `json:"tournament_id" db:"tournament_id"`
	Stage        TournamentStage `json:"stage" db:"stage"`
	RoundNumber  int             `json:"round_number" db:"round_number"`
	MatchNumber  int             `json:"match_number" db:"match_number"`

	Team1ID *int `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID *int `json:"team2_id,omitempty" db:"team2_id"`

	SetScoresTeam1 []int64 `json:"set_scores_team1,omitempty" db:"set_scores_team1"`
	SetScoresTeam2 []int64 `json:"set_scores_team2,omitempty" db:"set_scores_team2"`
	WinnerTeamID   *int    `json:"winner_team_id,omitempty" db:"winner_team_id"`

	CourtNumber *int       `json:"court_number,omitempty" db:"court_number"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
