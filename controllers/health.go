package controllers

import (
	"context"
	"net/http"

	"bistro-boss/utils"

	"github.com/sirupsen/logrus"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness and readiness probes
type HealthController struct {
	DB  Pinger
	Log logrus.FieldLogger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger, log logrus.FieldLogger) *HealthController {
	return &HealthController{DB: db, Log: log}
}

// Root answers with a plain-text banner
func (hc *HealthController) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Bistro Boss server is running"))
}

// Healthz pings the database and reports ok or unavailable
func (hc *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := hc.DB.Ping(r.Context()); err != nil {
		requestLogger(r, hc.Log).WithError(err).Warn("health check failed")
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
