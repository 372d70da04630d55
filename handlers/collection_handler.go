package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/DeporS/worn11/middleware"
	"github.com/DeporS/worn11/services"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const maxUploadMemory = 32 << 20 // 32MB

type CollectionHandler struct {
	collectionService services.CollectionService
}

func NewCollectionHandler(cs services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: cs}
}

func (h *CollectionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	items, err := h.collectionService.ListMine(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"items": items}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CollectionHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	itemID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	item, err := h.collectionService.GetMine(r.Context(), userID, itemID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, item, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	input, uploads, cleanup, err := readCollectionItemForm(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer cleanup()

	item, err := h.collectionService.Create(r.Context(), userID, input, uploads)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, item, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	itemID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input, uploads, cleanup, err := readCollectionItemForm(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer cleanup()

	item, err := h.collectionService.Update(r.Context(), userID, itemID, input, uploads)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, item, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	itemID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.collectionService.Delete(r.Context(), userID, itemID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	itemID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.collectionService.ToggleLike(r.Context(), userID, itemID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CollectionHandler) UserCollection(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewerID := middleware.OptionalUserID(r.Context())

	items, err := h.collectionService.ListByUsername(r.Context(), username, viewerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"items": items}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CollectionHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	stats, err := h.collectionService.StatsByUsername(r.Context(), username)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// readCollectionItemForm decodes the multipart form shared by create and
// update. The returned cleanup closes any opened upload files and must be
// called once the service is done with them.
func readCollectionItemForm(r *http.Request) (services.CollectionItemInput, []services.ImageUpload, func(), error) {
	var input services.CollectionItemInput
	noop := func() {}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return input, nil, noop, err
	}

	input.TeamName = r.FormValue("team_name")
	input.Season = r.FormValue("season")
	input.KitType = r.FormValue("kit_type")
	input.Size = r.FormValue("size")
	input.Condition = r.FormValue("condition")
	input.ShirtTechnology = r.FormValue("shirt_technology")
	input.PlayerName = optionalFormValue(r, "player_name")
	input.PlayerNumber = optionalFormValue(r, "player_number")
	input.OfferLink = optionalFormValue(r, "offer_link")
	input.ImagesOrder = r.FormValue("images_order")

	if v := r.FormValue("for_sale"); v != "" {
		forSale, err := strconv.ParseBool(v)
		if err == nil {
			input.ForSale = forSale
		}
	}

	if v := r.FormValue("manual_value"); v != "" {
		manual, err := decimal.NewFromString(v)
		if err != nil {
			return input, nil, noop, services.ErrInvalidManualValue
		}
		input.ManualValue = &manual
	}

	if v := r.FormValue("delete_images"); v != "" {
		var ids []int
		// Same tolerance as the reorder payload: unreadable means "no deletions".
		if err := json.Unmarshal([]byte(v), &ids); err == nil {
			input.DeleteImageIDs = ids
		}
	}

	var uploads []services.ImageUpload
	var opened []interface{ Close() error }
	cleanup := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				cleanup()
				return input, nil, noop, err
			}
			opened = append(opened, file)
			uploads = append(uploads, services.ImageUpload{
				Content:     file,
				ContentType: header.Header.Get("Content-Type"),
			})
		}
	}

	return input, uploads, cleanup, nil
}

func optionalFormValue(r *http.Request, field string) *string {
	if v := r.FormValue(field); v != "" {
		return &v
	}
	return nil
}
