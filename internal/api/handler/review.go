package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socnav/socnav/internal/api/models"
	"github.com/socnav/socnav/internal/api/response"
	"github.com/socnav/socnav/internal/catalog"
	"github.com/socnav/socnav/internal/review"
)

// ReviewHandler handles review endpoints.
type ReviewHandler struct {
	reviewService *review.Service
	catalogRepo   *catalog.Repository
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *review.Service, catalogRepo *catalog.Repository) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		catalogRepo:   catalogRepo,
	}
}

// List handles GET /api/objects/{objectId}/reviews - newest reviews first.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	objectID := chi.URLParam(r, "objectId")

	reviews, err := h.reviewService.List(r.Context(), objectID)
	if err != nil {
		response.InternalError(w, r, "failed to load reviews")
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewReviewList(reviews))
}

// Summary handles GET /api/objects/{objectId}/summary - aggregate rating.
func (h *ReviewHandler) Summary(w http.ResponseWriter, r *http.Request) {
	objectID := chi.URLParam(r, "objectId")

	summary, err := h.reviewService.Summary(r.Context(), objectID)
	if err != nil {
		response.InternalError(w, r, "failed to load summary")
		return
	}

	response.JSON(w, r, http.StatusOK, models.ReviewSummary{
		Count:     summary.Count,
		AvgRating: summary.AvgRating,
	})
}

// Create handles POST /api/objects/{objectId}/reviews.
// This endpoint requires authentication.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	objectID := chi.URLParam(r, "objectId")

	if _, err := h.catalogRepo.Get(objectID); err != nil {
		response.NotFound(w, r, "object not found")
		return
	}

	var req review.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		fieldErrors := make([]models.FieldError, len(errs))
		for i, e := range errs {
			fieldErrors[i] = models.FieldError{
				Field:   e.Field,
				Message: e.Message,
				Code:    e.Code,
			}
		}
		response.BadRequest(w, r, "validation error", fieldErrors)
		return
	}

	userID := GetUserID(r.Context())
	nickname := GetNickname(r.Context())

	rev, err := h.reviewService.Create(r.Context(), objectID, userID, nickname, &req)
	if err != nil {
		response.InternalError(w, r, "failed to create review")
		return
	}

	location := "/api/objects/" + objectID + "/reviews/" + rev.ID
	response.Created(w, r, location, models.NewReview(rev))
}

// Delete handles DELETE /api/reviews/{reviewId} and
// DELETE /api/objects/{objectId}/reviews/{reviewId}.
// This endpoint requires authentication.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewId")
	userID := GetUserID(r.Context())

	if err := h.reviewService.Delete(r.Context(), reviewID, userID); err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			response.NotFound(w, r, "review not found")
			return
		}
		response.InternalError(w, r, "failed to delete review")
		return
	}

	response.NoContent(w, r)
}
