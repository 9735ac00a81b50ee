package handlers

import (
	"net/http"

	"github.com/Dosada05/padel-ladder-system/middleware"
	"github.com/Dosada05/padel-ladder-system/services"
)

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rs services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rs}
}

// StandingsHandler обрабатывает GET /categories/{categoryID}/standings
func (h *RankingHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.rankingService.Standings(r.Context(), categoryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EnsureEntryHandler обрабатывает POST /categories/{categoryID}/entries —
// команда встаёт в конец рейтинга, если её там ещё нет.
func (h *RankingHandler) EnsureEntryHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getIDFromURL(r, "categoryID")
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

	entry, err := h.rankingService.EnsureEntry(r.Context(), categoryID, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdjustStatsHandler обрабатывает PUT /admin/entries/{entryID}/stats
func (h *RankingHandler) AdjustStatsHandler(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required for admin operations")
		return
	}

	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Adjustment services.StatAdjustment `json:"adjustment"`
		Notes      string                  `json:"notes"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.rankingService.AdminAdjustStats(r.Context(), actorID, entryID, input.Adjustment, input.Notes); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SwapRanksHandler обрабатывает POST /admin/entries/swap
func (h *RankingHandler) SwapRanksHandler(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required for admin operations")
		return
	}

	var input struct {
		EntryAID int    `json:"entry_a_id"`
		EntryBID int    `json:"entry_b_id"`
		Notes    string `json:"notes"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.rankingService.AdminSwapRanks(r.Context(), actorID, input.EntryAID, input.EntryBID, input.Notes); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
