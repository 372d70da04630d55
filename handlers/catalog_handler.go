package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DeporS/worn11/services"
)

var errInvalidTeamID = errors.New("invalid team_id query parameter")

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) ListKits(w http.ResponseWriter, r *http.Request) {
	var teamID *int
	if v := r.URL.Query().Get("team_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			badRequestResponse(w, r, errInvalidTeamID)
			return
		}
		teamID = &id
	}

	kits, err := h.catalogService.ListKits(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"kits": kits}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
