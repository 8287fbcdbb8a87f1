package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/socnav/socnav/internal/api/models"
	"github.com/socnav/socnav/internal/api/response"
	"github.com/socnav/socnav/internal/navigator"
	"github.com/socnav/socnav/internal/recommend"
)

// RouteHandler handles route composition endpoints.
type RouteHandler struct {
	navigator *navigator.Service
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(nav *navigator.Service) *RouteHandler {
	return &RouteHandler{navigator: nav}
}

// Build handles POST /api/routes/build - compose a route from a
// free-text query, category filters and an accessibility profile.
func (h *RouteHandler) Build(w http.ResponseWriter, r *http.Request) {
	var input models.RouteBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	req, errs := input.ToBuildRequest()
	if len(errs) > 0 {
		response.BadRequest(w, r, "validation error", errs)
		return
	}

	route, err := h.navigator.BuildRoute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, navigator.ErrEmptyQuery):
			response.BadRequest(w, r, "query, categories or profile required", nil)
		case errors.Is(err, navigator.ErrNoLocation):
			response.BadRequest(w, r, "origin location is required", nil)
		case errors.Is(err, recommend.ErrNoAccessible):
			response.UnprocessableEntity(w, r, "no destination matches the accessibility profile")
		case errors.Is(err, recommend.ErrNoMatch):
			response.NotFound(w, r, "no destination matches the request")
		default:
			response.InternalError(w, r, "route composition failed")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewRouteResponse(route))
}
