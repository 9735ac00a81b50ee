package handlers

import (
	"net/http"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/services"
)

type AmericanoHandler struct {
	americanoService services.AmericanoService
}

func NewAmericanoHandler(as services.AmericanoService) *AmericanoHandler {
	return &AmericanoHandler{americanoService: as}
}

// CreateSessionHandler обрабатывает POST /americano
func (h *AmericanoHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ClubID         int      `json:"club_id"`
		Name           string   `json:"name"`
		Mode           string   `json:"mode"`
		PointsPerRound int      `json:"points_per_round"`
		TotalRounds    *int     `json:"total_rounds"`
		Names          []string `json:"names"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.americanoService.CreateSession(r.Context(), services.CreateAmericanoInput{
		ClubID:         input.ClubID,
		Name:           input.Name,
		Mode:           models.AmericanoMode(input.Mode),
		PointsPerRound: input.PointsPerRound,
		TotalRounds:    input.TotalRounds,
		Names:          input.Names,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetSessionHandler обрабатывает GET /americano/{sessionID}
func (h *AmericanoHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.americanoService.GetSession(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler обрабатывает POST /americano/{sessionID}/start
func (h *AmericanoHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.americanoService.Start(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatchesHandler обрабатывает GET /americano/{sessionID}/matches
func (h *AmericanoHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.americanoService.ListMatches(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LeaderboardHandler обрабатывает GET /americano/{sessionID}/leaderboard
func (h *AmericanoHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, teams, err := h.americanoService.Leaderboard(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players, "teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitScoreHandler обрабатывает POST /americano/matches/{matchID}/score
func (h *AmericanoHandler) SubmitScoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Score1 int `json:"score1"`
		Score2 int `json:"score2"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.americanoService.SubmitMatchScore(r.Context(), id, input.Score1, input.Score2); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CorrectScoreHandler обрабатывает PUT /americano/matches/{matchID}/score
func (h *AmericanoHandler) CorrectScoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Score1 int `json:"score1"`
		Score2 int `json:"score2"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.americanoService.CorrectScore(r.Context(), id, input.Score1, input.Score2); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlayerStatsHandler обрабатывает GET /americano/{sessionID}/players/{playerID}/stats
func (h *AmericanoHandler) PlayerStatsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.americanoService.PlayerStats(r.Context(), sessionID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
