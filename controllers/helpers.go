package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bistro-boss/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("empty request body")

func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)["id"])
}

func requestLogger(r *http.Request, fallback logrus.FieldLogger) logrus.FieldLogger {
	return middleware.LoggerFromContext(r.Context(), fallback)
}
