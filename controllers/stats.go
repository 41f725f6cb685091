package controllers

import (
	"context"
	"net/http"

	"bistro-boss/models"
	"bistro-boss/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// StatsStore computes dashboard aggregates
type StatsStore interface {
	AdminStats(ctx context.Context) (models.AdminStats, error)
	OrderStats(ctx context.Context) ([]bson.M, error)
}

// StatsController serves dashboard figures
type StatsController struct {
	Store StatsStore
	Log   logrus.FieldLogger
}

// NewStatsController creates a new StatsController
func NewStatsController(s StatsStore, log logrus.FieldLogger) *StatsController {
	return &StatsController{Store: s, Log: log}
}

// AdminStats returns user/menu/order counts and total revenue (Admin only)
func (sc *StatsController) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := sc.Store.AdminStats(r.Context())
	if err != nil {
		requestLogger(r, sc.Log).WithError(err).Error("admin stats")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error computing stats")
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

// OrderStats returns every order joined with its menu items
func (sc *StatsController) OrderStats(w http.ResponseWriter, r *http.Request) {
	docs, err := sc.Store.OrderStats(r.Context())
	if err != nil {
		requestLogger(r, sc.Log).WithError(err).Error("order stats")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error computing stats")
		return
	}
	utils.WriteJSON(w, http.StatusOK, docs)
}
