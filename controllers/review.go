package controllers

import (
	"context"
	"net/http"

	"bistro-boss/models"
	"bistro-boss/utils"

	"github.com/sirupsen/logrus"
)

// ReviewStore lists customer reviews
type ReviewStore interface {
	ListReviews(ctx context.Context) ([]models.Review, error)
}

// ReviewController serves customer reviews
type ReviewController struct {
	Store ReviewStore
	Log   logrus.FieldLogger
}

// NewReviewController creates a new ReviewController
func NewReviewController(s ReviewStore, log logrus.FieldLogger) *ReviewController {
	return &ReviewController{Store: s, Log: log}
}

// GetReviews retrieves every review
func (rc *ReviewController) GetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := rc.Store.ListReviews(r.Context())
	if err != nil {
		requestLogger(r, rc.Log).WithError(err).Error("list reviews")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error fetching reviews")
		return
	}
	utils.WriteJSON(w, http.StatusOK, reviews)
}
