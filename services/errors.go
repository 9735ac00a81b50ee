package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed         = errors.New("validation failed")
	ErrTeamFrozen               = errors.New("team is frozen and cannot take part in challenges")
	ErrSelfChallenge            = errors.New("a team cannot challenge itself")
	ErrDuplicateChallenge       = errors.New("a pending challenge against this team already exists")
	ErrChallengeOutOfRange      = errors.New("challenged team is outside the allowed challenge range")
	ErrChallengeNotBetter       = errors.New("a team may only challenge teams ranked above itself")
	ErrDeclineReasonRequired    = errors.New("a reason is required to decline a challenge")
	ErrDisputeReasonRequired    = errors.New("a reason is required to dispute a score")
	ErrAuditNotesRequired       = errors.New("admin overrides require a justification note")
	ErrPointSumMismatch         = errors.New("submitted scores must sum to the session's points per round")
	ErrPlayersNotMultipleOfFour = errors.New("individual americano needs a player count divisible by 4")
	ErrTotalRoundsRequired      = errors.New("individual americano requires total_rounds")

	// Ошибки конфликтов состояния: вызывающий должен перечитать данные
	ErrChallengeNotPending    = errors.New("challenge is not pending")
	ErrChallengeExpired       = errors.New("challenge has expired")
	ErrSelfConfirmation       = errors.New("score cannot be confirmed by the user who submitted it")
	ErrScoreNotSubmitted      = errors.New("no submitted score awaits confirmation")
	ErrMatchAlreadyCompleted  = errors.New("match is already completed")
	ErrMatchSlotsNotResolved  = errors.New("both team slots must be resolved before a score can be submitted")
	ErrTournamentWrongStatus  = errors.New("tournament is not in the required status for this operation")
	ErrSessionWrongStatus     = errors.New("americano session is not in the required status for this operation")
	ErrNotAdjacentRanks       = errors.New("rank swap requires two adjacent entries of the same category")

	// Ошибки отдельных сущностей
	ErrTeamNotFound       = errors.New("team not found")
	ErrCategoryNotFound   = errors.New("ladder category not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrSessionNotFound    = errors.New("americano session not found")
	ErrEntryNotFound      = errors.New("ranking entry not found")

	// Конкурирующая запись успела раньше; состояние нужно перечитать
	ErrStaleState = errors.New("state changed concurrently, re-fetch and retry")
)
