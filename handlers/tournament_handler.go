package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/realtime"
	"github.com/Dosada05/padel-ladder-system/scoring"
	"github.com/Dosada05/padel-ladder-system/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	hub               *realtime.Hub
}

func NewTournamentHandler(ts services.TournamentService, hub *realtime.Hub) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		hub:               hub,
	}
}

// CreateHandler обрабатывает POST /tournaments
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ClubID               int      `json:"club_id"`
		Name                 string   `json:"name"`
		Description          *string  `json:"description"`
		Format               string   `json:"format"`
		MaxTeams             int      `json:"max_teams"`
		EntryFee             *float64 `json:"entry_fee"`
		RegistrationDeadline *string  `json:"registration_deadline"`
		StartDate            string   `json:"start_date"`
		CourtCount           int      `json:"court_count"`
		MatchDurationMinutes int      `json:"match_duration_minutes"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	startDate, err := time.Parse(time.RFC3339, input.StartDate)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var deadline *time.Time
	if input.RegistrationDeadline != nil {
		parsed, err := time.Parse(time.RFC3339, *input.RegistrationDeadline)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		deadline = &parsed
	}

	tournament, err := h.tournamentService.Create(r.Context(), services.CreateTournamentInput{
		ClubID:               input.ClubID,
		Name:                 input.Name,
		Description:          input.Description,
		Format:               models.TournamentFormat(input.Format),
		MaxTeams:             input.MaxTeams,
		EntryFee:             input.EntryFee,
		RegistrationDeadline: deadline,
		StartDate:            startDate,
		CourtCount:           input.CourtCount,
		MatchDurationMinutes: input.MatchDurationMinutes,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetDetailHandler обрабатывает GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetDetail(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByClubHandler обрабатывает GET /clubs/{clubID}/tournaments
func (h *TournamentHandler) ListByClubHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournaments, err := h.tournamentService.ListByClub(r.Context(), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// OpenRegistrationHandler обрабатывает POST /tournaments/{tournamentID}/open
func (h *TournamentHandler) OpenRegistrationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.OpenRegistration(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartHandler обрабатывает POST /tournaments/{tournamentID}/start
func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.Start(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterHandler обрабатывает POST /tournaments/{tournamentID}/register
func (h *TournamentHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamID int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.tournamentService.Register(r.Context(), id, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// WithdrawHandler обрабатывает POST /tournaments/{tournamentID}/withdraw
func (h *TournamentHandler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamID int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.Withdraw(r.Context(), id, input.TeamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignGroupsHandler обрабатывает POST /tournaments/{tournamentID}/groups
func (h *TournamentHandler) AssignGroupsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		GroupCount int         `json:"group_count"`
		Manual     map[int]int `json:"manual,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.AssignGroups(r.Context(), id, input.GroupCount, input.Manual); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateGroupMatchesHandler обрабатывает POST /tournaments/{tournamentID}/matches/generate
func (h *TournamentHandler) GenerateGroupMatchesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.GenerateGroupMatches(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.broadcastBracketUpdate(id, matches)

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GroupStandingsHandler обрабатывает GET /tournaments/{tournamentID}/standings
func (h *TournamentHandler) GroupStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.tournamentService.GroupStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SeedKnockoutHandler обрабатывает POST /tournaments/{tournamentID}/knockout/seed
func (h *TournamentHandler) SeedKnockoutHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.SeedKnockout(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.broadcastBracketUpdate(id, matches)

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitGroupScoreHandler обрабатывает POST /tournament-matches/{matchID}/score
func (h *TournamentHandler) SubmitGroupScoreHandler(w http.ResponseWriter, r *http.Request) {
	h.submitScore(w, r, h.tournamentService.SubmitGroupScore)
}

// SubmitKnockoutScoreHandler обрабатывает POST /tournament-matches/{matchID}/knockout-score
func (h *TournamentHandler) SubmitKnockoutScoreHandler(w http.ResponseWriter, r *http.Request) {
	h.submitScore(w, r, h.tournamentService.SubmitKnockoutScore)
}

func (h *TournamentHandler) submitScore(
	w http.ResponseWriter,
	r *http.Request,
	submit func(ctx context.Context, input services.SubmitTournamentScoreInput) (*models.TournamentMatch, error),
) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Sets []scoring.SetScore `json:"sets"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := submit(r.Context(), services.SubmitTournamentScoreInput{
		MatchID: id,
		Sets:    input.Sets,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.broadcastBracketUpdate(match.TournamentID, match)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// broadcastBracketUpdate уведомляет подписчиков турнира об изменении
// сетки. Без хаба (тесты) рассылка пропускается.
func (h *TournamentHandler) broadcastBracketUpdate(tournamentID int, payload interface{}) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastToRoom(realtime.TournamentRoom(tournamentID), realtime.Event{
		Type:    "BRACKET_UPDATED",
		Payload: payload,
	})
}
