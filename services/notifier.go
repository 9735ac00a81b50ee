package services

import "github.com/Dosada05/padel-ladder-system/models"

// Notifier доставляет уведомления о событиях лестницы. Вызовы строго
// fire-and-forget: сбой доставки логируется реализацией и никогда не
// откатывает породившую его запись.
type Notifier interface {
	NotifyChallengeProposed(challenge *models.Challenge)
	NotifyChallengeAccepted(challenge *models.Challenge, match *models.Match)
	NotifyChallengeDeclined(challenge *models.Challenge)
	NotifyScoreSubmitted(match *models.Match)
	NotifyScoreConfirmed(match *models.Match)
	NotifyScoreDisputed(match *models.Match)
}

// NopNotifier — заглушка для окружений без realtime-канала.
type NopNotifier struct{}

func (NopNotifier) NotifyChallengeProposed(*models.Challenge) {}
func (NopNotifier) NotifyChallengeAccepted(*models.Challenge, *models.Match) {}
func (NopNotifier) NotifyChallengeDeclined(*models.Challenge) {}
func (NopNotifier) NotifyScoreSubmitted(*models.Match) {}
func (NopNotifier) NotifyScoreConfirmed(*models.Match) {}
func (NopNotifier) NotifyScoreDisputed(*models.Match) {}
