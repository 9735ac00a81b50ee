package handlers

import (
	"net/http"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/services"
)

type ChallengeHandler struct {
	challengeService services.ChallengeService
}

func NewChallengeHandler(cs services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs}
}

// ProposeHandler обрабатывает POST /challenges
func (h *ChallengeHandler) ProposeHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ChallengerTeamID int     `json:"challenger_team_id"`
		ChallengedTeamID int     `json:"challenged_team_id"`
		CategoryID       int     `json:"category_id"`
		Message          *string `json:"message"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	challenge, err := h.challengeService.Propose(r.Context(), services.ProposeChallengeInput{
		ChallengerTeamID: input.ChallengerTeamID,
		ChallengedTeamID: input.ChallengedTeamID,
		CategoryID:       input.CategoryID,
		Message:          input.Message,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"challenge": challenge}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AcceptHandler обрабатывает POST /challenges/{challengeID}/accept
func (h *ChallengeHandler) AcceptHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.challengeService.Accept(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeclineHandler обрабатывает POST /challenges/{challengeID}/decline
func (h *ChallengeHandler) DeclineHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.challengeService.Decline(r.Context(), id, input.Reason); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CancelHandler обрабатывает POST /challenges/{challengeID}/cancel
func (h *ChallengeHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "challengeID")
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

	if err := h.challengeService.Cancel(r.Context(), id, input.TeamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByTeamHandler обрабатывает GET /teams/{teamID}/challenges?status=pending
func (h *ChallengeHandler) ListByTeamHandler(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.ChallengeStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		s := models.ChallengeStatus(statusStr)
		status = &s
	}
	challenges, err := h.challengeService.ListByTeam(r.Context(), teamID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenges": challenges}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
