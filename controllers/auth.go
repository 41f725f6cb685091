package controllers

import (
	"io"
	"net/http"

	"bistro-boss/utils"

	"github.com/sirupsen/logrus"
)

// TokenSigner signs a caller supplied claim payload
type TokenSigner interface {
	Sign(payload map[string]interface{}) (string, error)
}

// AuthController issues tokens
type AuthController struct {
	Tokens TokenSigner
	Log    logrus.FieldLogger
}

// NewAuthController creates a new AuthController
func NewAuthController(tokens TokenSigner, log logrus.FieldLogger) *AuthController {
	return &AuthController{Tokens: tokens, Log: log}
}

// IssueToken signs the request body as-is with a one hour expiry. The
// identity in the body is trusted; the client has already signed the user in.
func (ac *AuthController) IssueToken(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	payload, err := utils.DecodePayload(body)
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	token, err := ac.Tokens.Sign(payload)
	if err != nil {
		requestLogger(r, ac.Log).WithError(err).Error("sign token")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
