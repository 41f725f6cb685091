package controllers

import (
	"context"
	"net/http"

	"bistro-boss/models"
	"bistro-boss/utils"

	"github.com/sirupsen/logrus"
)

// PaymentIntentCreator creates a processor-side payment intent for an amount
// in minor units and returns its client secret
type PaymentIntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amount int64) (string, error)
}

// PaymentController handles payment intents
type PaymentController struct {
	Payments PaymentIntentCreator
	Log      logrus.FieldLogger
}

// NewPaymentController creates a PaymentController. payments may be nil when
// no processor key is configured.
func NewPaymentController(payments PaymentIntentCreator, log logrus.FieldLogger) *PaymentController {
	return &PaymentController{Payments: payments, Log: log}
}

// CreatePaymentIntent charges {total} in cents, card only
func (pc *PaymentController) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentIntentRequest
	if err := decodeJSON(r, &req); err != nil || req.Total == nil {
		utils.WriteMessage(w, http.StatusBadRequest, "total is required")
		return
	}
	amount, err := utils.ToMinorUnits(*req.Total)
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if pc.Payments == nil {
		utils.WriteMessage(w, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	secret, err := pc.Payments.CreatePaymentIntent(r.Context(), amount)
	if err != nil {
		requestLogger(r, pc.Log).WithError(err).WithField("amount", amount).Error("create payment intent")
		utils.WriteMessage(w, http.StatusInternalServerError, "Failed to create payment intent")
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.PaymentIntentResponse{ClientSecret: secret})
}
