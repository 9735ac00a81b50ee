package models

import "time"

type LadderStatus string

const (
	LadderStatusActive   LadderStatus = "active"
	LadderStatusArchived LadderStatus = "archived"
)

// Ladder — лестница клуба. Каждая лестница делится на категории по уровню.
type Ladder struct {
	ID        int          `json:"id" db:"id"`
	ClubID    int          `json:"club_id" db:"club_id"`
	Name      string       `json:"name" db:"name"`
	Status    LadderStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// LadderCategory — категория внутри лестницы со своим рейтингом
// и своим диапазоном вызовов. ChallengeRange всегда >= 1.
type LadderCategory struct {
	ID             int       `json:"id" db:"id"`
	LadderID       int       `json:"ladder_id" db:"ladder_id"`
	Name           string    `json:"name" db:"name"`
	ChallengeRange int       `json:"challenge_range" db:"challenge_range"`
	EntryFee       *float64  `json:"entry_fee,omitempty" db:"entry_fee"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// RankingEntry — позиция команды в категории.
// Инвариант: значения rank внутри категории образуют непрерывную
// перестановку 1..N без дыр и дублей.
type RankingEntry struct {
	ID         int       `json:"id" db:"id"`
	CategoryID int       `json:"category_id" db:"category_id"`
	TeamID     int       `json:"team_id" db:"team_id"`
	Rank       int       `json:"rank" db:"rank"`
	Points     int       `json:"points" db:"points"`
	Wins       int       `json:"wins" db:"wins"`
	Losses     int       `json:"losses" db:"losses"`
	Streak     int       `json:"streak" db:"streak"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
