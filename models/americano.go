package models

import "time"

type AmericanoMode string

const (
	AmericanoModeIndividual AmericanoMode = "individual"
	AmericanoModeTeam       AmericanoMode = "team"
)

type AmericanoStatus string

const (
	AmericanoStatusDraft      AmericanoStatus = "draft"
	AmericanoStatusInProgress AmericanoStatus = "in_progress"
	AmericanoStatusCompleted  AmericanoStatus = "completed"
	AmericanoStatusCancelled  AmericanoStatus = "cancelled"
)

// AmericanoSession — сессия «американо»: серия коротких матчей с ротацией.
// PointsPerRound — фиксированная сумма очков каждого матча
// (score1 + score2 всегда равна ей).
type AmericanoSession struct {
	ID             int             `json:"id" db:"id"`
	ClubID         int             `json:"club_id" db:"club_id"`
	Name           string          `json:"name" db:"name"`
	Mode           AmericanoMode   `json:"mode" db:"mode"`
	PointsPerRound int             `json:"points_per_round" db:"points_per_round"`
	TotalRounds    *int            `json:"total_rounds,omitempty" db:"total_rounds"` // только individual
	CurrentRound   int             `json:"current_round" db:"current_round"`
	Status         AmericanoStatus `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// AmericanoPlayer — игрок сессии с накопительными показателями.
type AmericanoPlayer struct {
	ID            int    `json:"id" db:"id"`
	SessionID     int    `json:"session_id" db:"session_id"`
	Name          string `json:"name" db:"name"`
	TotalPoints   int    `json:"total_points" db:"total_points"`
	MatchesPlayed int    `json:"matches_played" db:"matches_played"`
	Wins          int    `json:"wins" db:"wins"`
	Losses        int    `json:"losses" db:"losses"`
}

// AmericanoTeam — фиксированная пара для командного режима.
type AmericanoTeam struct {
	ID            int    `json:"id" db:"id"`
	SessionID     int    `json:"session_id" db:"session_id"`
	Name          string `json:"name" db:"name"`
	TotalPoints   int    `json:"total_points" db:"total_points"`
	MatchesPlayed int    `json:"matches_played" db:"matches_played"`
	Wins          int    `json:"wins" db:"wins"`
	Losses        int    `json:"losses" db:"losses"`
}

// AmericanoMatch — один матч сессии. В командном режиме заполнены
// Team1ID/Team2ID, в индивидуальном — четыре игрока (пары [1,2] и [3,4]).
type AmericanoMatch struct {
	ID          int  `json:"id" db:"id"`
	SessionID   int  `json:"session_id" db:"session_id"`
	RoundNumber int  `json:"round_number" db:"round_number"`
	CourtNumber int  `json:"court_number" db:"court_number"`
	Team1ID     *int `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID     *int `json:"team2_id,omitempty" db:"team2_id"`

	Side1Player1ID *int `json:"side1_player1_id,omitempty" db:"side1_player1_id"`
	Side1Player2ID *int `json:"side1_player2_id,omitempty" db:"side1_player2_id"`
	Side2Player1ID *int `json:"side2_player1_id,omitempty" db:"side2_player1_id"`
	Side2Player2ID *int `json:"side2_player2_id,omitempty" db:"side2_player2_id"`

	Score1      *int       `json:"score1,omitempty" db:"score1"`
	Score2      *int       `json:"score2,omitempty" db:"score2"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Completed сообщает, сыгран ли матч.
func (m *AmericanoMatch) Completed() bool {
	return m.CompletedAt != nil
}
