package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socnav/socnav/internal/api/models"
	"github.com/socnav/socnav/internal/api/response"
	"github.com/socnav/socnav/internal/catalog"
)

// ObjectsHandler handles destination catalog endpoints.
type ObjectsHandler struct {
	repo *catalog.Repository
}

// NewObjectsHandler creates a new ObjectsHandler.
func NewObjectsHandler(repo *catalog.Repository) *ObjectsHandler {
	return &ObjectsHandler{repo: repo}
}

// List handles GET /api/objects - list destinations with optional filters.
func (h *ObjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	categories := make(map[catalog.Category]bool)
	for _, c := range query["category"] {
		cat := catalog.Category(c)
		if !cat.Valid() {
			response.BadRequest(w, r, "unknown category: "+c, nil)
			return
		}
		categories[cat] = true
	}

	flags := make([]catalog.Flag, 0, len(query["flag"]))
	for _, f := range query["flag"] {
		flags = append(flags, catalog.Flag(f))
	}
	profile, err := catalog.NewProfile(flags...)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	var objects []models.Destination
	for _, d := range h.repo.FilterCategories(categories) {
		if !d.IsAccessible(profile) {
			continue
		}
		objects = append(objects, models.NewDestination(&d))
	}
	if objects == nil {
		objects = []models.Destination{}
	}

	response.JSON(w, r, http.StatusOK, models.DestinationList{
		Objects: objects,
		Total:   len(objects),
	})
}

// Get handles GET /api/objects/{objectId} - fetch one destination.
func (h *ObjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	objectID := chi.URLParam(r, "objectId")

	dest, err := h.repo.Get(objectID)
	if err != nil {
		if errors.Is(err, catalog.ErrDestinationNotFound) {
			response.NotFound(w, r, "object not found")
			return
		}
		response.InternalError(w, r, "failed to load object")
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewDestination(&dest))
}
