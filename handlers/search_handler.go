package handlers

import (
	"net/http"

	"github.com/DeporS/worn11/services"
)

type SearchHandler struct {
	searchService services.SearchService
}

func NewSearchHandler(ss services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: ss}
}

func (h *SearchHandler) SearchTeams(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	teams, err := h.searchService.SearchTeams(r.Context(), query)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teams, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SearchHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	users, err := h.searchService.SearchUsers(r.Context(), query)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, users, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
