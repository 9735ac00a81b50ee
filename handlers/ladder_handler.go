package handlers

import (
	"net/http"

	"github.com/Dosada05/padel-ladder-system/services"
)

type LadderHandler struct {
	ladderService services.LadderService
}

func NewLadderHandler(ls services.LadderService) *LadderHandler {
	return &LadderHandler{ladderService: ls}
}

// CreateLadderHandler обрабатывает POST /ladders
func (h *LadderHandler) CreateLadderHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ClubID int    `json:"club_id"`
		Name   string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ladder, err := h.ladderService.CreateLadder(r.Context(), services.CreateLadderInput{
		ClubID: input.ClubID,
		Name:   input.Name,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"ladder": ladder}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetLadderHandler обрабатывает GET /ladders/{ladderID}
func (h *LadderHandler) GetLadderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "ladderID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ladder, err := h.ladderService.GetLadder(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ladder": ladder}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateCategoryHandler обрабатывает POST /ladders/{ladderID}/categories
func (h *LadderHandler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	ladderID, err := getIDFromURL(r, "ladderID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Name           string   `json:"name"`
		ChallengeRange int      `json:"challenge_range"`
		EntryFee       *float64 `json:"entry_fee"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	category, err := h.ladderService.CreateCategory(r.Context(), services.CreateCategoryInput{
		LadderID:       ladderID,
		Name:           input.Name,
		ChallengeRange: input.ChallengeRange,
		EntryFee:       input.EntryFee,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"category": category}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetCategoryHandler обрабатывает GET /categories/{categoryID}
func (h *LadderHandler) GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	category, err := h.ladderService.GetCategory(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"category": category}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListCategoriesHandler обрабатывает GET /ladders/{ladderID}/categories
func (h *LadderHandler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ladderID, err := getIDFromURL(r, "ladderID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	categories, err := h.ladderService.ListCategories(r.Context(), ladderID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"categories": categories}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
