package models

import "time"

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// TournamentParticipant — заявка команды на турнир.
//
// WaitlistPosition == nil означает подтверждённую регистрацию.
// Лист ожидания — строгая FIFO-очередь: позиции перенумеровываются
// непрерывно с 1 при любом удалении или продвижении.
type TournamentParticipant struct {
	ID               int           `json:"id" db:"id"`
	TournamentID     int           `json:"tournament_id" db:"tournament_id"`
	TeamID           int           `json:"team_id" db:"team_id"`
	GroupNumber      *int          `json:"group_number,omitempty" db:"group_number"`
	WaitlistPosition *int          `json:"waitlist_position,omitempty" db:"waitlist_position"`
	PaymentStatus    PaymentStatus `json:"payment_status" db:"payment_status"`

	// Показатели группового этапа.
	GroupWins          int `json:"group_wins" db:"group_wins"`
	GroupLosses        int `json:"group_losses" db:"group_losses"`
	GroupPointsFor     int `json:"group_points_for" db:"group_points_for"`
	GroupPointsAgainst int `json:"group_points_against" db:"group_points_against"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}

// Registered сообщает, подтверждена ли заявка (не в листе ожидания).
func (p *TournamentParticipant) Registered() bool {
	return p.WaitlistPosition == nil
}
