package realtime

import (
	"github.com/Dosada05/padel-ladder-system/models"
)

// EventNotifier транслирует события лестницы подписчикам категории.
// Реализует services.Notifier. Доставка fire-and-forget: событие без
// подписчиков просто теряется и никогда не влияет на породившую запись.
type EventNotifier struct {
	hub *Hub
}

func NewEventNotifier(hub *Hub) *EventNotifier {
	return &EventNotifier{hub: hub}
}

func (n *EventNotifier) NotifyChallengeProposed(challenge *models.Challenge) {
	n.broadcastChallenge("CHALLENGE_PROPOSED", challenge, challenge)
}

func (n *EventNotifier) NotifyChallengeAccepted(challenge *models.Challenge, match *models.Match) {
	n.broadcastChallenge("CHALLENGE_ACCEPTED", challenge, map[string]interface{}{
		"challenge": challenge,
		"match":     match,
	})
}

func (n *EventNotifier) NotifyChallengeDeclined(challenge *models.Challenge) {
	n.broadcastChallenge("CHALLENGE_DECLINED", challenge, challenge)
}

func (n *EventNotifier) NotifyScoreSubmitted(match *models.Match) {
	n.broadcastMatch("SCORE_SUBMITTED", match)
}

func (n *EventNotifier) NotifyScoreConfirmed(match *models.Match) {
	n.broadcastMatch("SCORE_CONFIRMED", match)
}

func (n *EventNotifier) NotifyScoreDisputed(match *models.Match) {
	n.broadcastMatch("SCORE_DISPUTED", match)
}

func (n *EventNotifier) broadcastChallenge(eventType string, challenge *models.Challenge, payload interface{}) {
	if challenge.CategoryID == nil {
		return
	}
	n.hub.BroadcastToRoom(CategoryRoom(*challenge.CategoryID), Event{Type: eventType, Payload: payload})
}

func (n *EventNotifier) broadcastMatch(eventType string, match *models.Match) {
	if match.CategoryID == nil {
		return
	}
	n.hub.BroadcastToRoom(CategoryRoom(*match.CategoryID), Event{Type: eventType, Payload: match})
}
