package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Message is the error/info body shape used across handlers
type Message struct {
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("encode response failed")
	}
}

// WriteMessage writes a {"message": ...} body
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Message{Message: message})
}
