package handlers

import (
	"net/http"

	"github.com/DeporS/worn11/models"
)

type OptionsHandler struct{}

func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{}
}

// ListOptions returns the enumerated option lists the front-end selects are
// built from.
func (h *OptionsHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	response := jsonResponse{
		"sizes":        models.SizeOptions,
		"conditions":   models.ConditionOptions,
		"technologies": models.TechnologyOptions,
		"types":        models.KitTypeOptions,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
