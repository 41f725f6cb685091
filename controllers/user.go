package controllers

import (
	"context"
	"errors"
	"net/http"

	"bistro-boss/models"
	"bistro-boss/store"
	"bistro-boss/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the persistence the user handlers need
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user models.User) (models.InsertResult, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

// RoleInvalidator forgets cached roles after a user changes
type RoleInvalidator interface {
	InvalidateRoles()
}

// UserController handles user-related requests
type UserController struct {
	Store UserStore
	Roles RoleInvalidator
	Log   logrus.FieldLogger
}

// NewUserController creates a new UserController
func NewUserController(s UserStore, roles RoleInvalidator, log logrus.FieldLogger) *UserController {
	return &UserController{Store: s, Roles: roles, Log: log}
}

type alreadyExists struct {
	Message    string      `json:"message"`
	InsertedID interface{} `json:"insertedId"`
}

// ListUsers returns every user (Admin only)
func (uc *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := uc.Store.ListUsers(r.Context())
	if err != nil {
		requestLogger(r, uc.Log).WithError(err).Error("list users")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error fetching users")
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

// CheckAdmin reports whether the user with ?email= is an admin
func (uc *UserController) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	isAdmin := false
	if email != "" {
		user, err := uc.Store.FindUserByEmail(r.Context(), email)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			requestLogger(r, uc.Log).WithError(err).Error("check admin")
			utils.WriteMessage(w, http.StatusInternalServerError, "Database error")
			return
		default:
			isAdmin = user.IsAdmin()
		}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"isAdmin": isAdmin})
}

// CreateUser stores a user on first sign-in. Existing emails are not an error.
func (uc *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(r, &user); err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if user.Email == "" {
		utils.WriteMessage(w, http.StatusBadRequest, "Email is required")
		return
	}

	existing := alreadyExists{Message: "User already exists"}
	_, err := uc.Store.FindUserByEmail(r.Context(), user.Email)
	if err == nil {
		utils.WriteJSON(w, http.StatusOK, existing)
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		requestLogger(r, uc.Log).WithError(err).Error("lookup user")
		utils.WriteMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Promotion to admin only happens through UpdateUser
	user.ID = primitive.NilObjectID
	user.Role = models.RoleUser

	result, err := uc.Store.InsertUser(r.Context(), user)
	if errors.Is(err, store.ErrDuplicate) {
		utils.WriteJSON(w, http.StatusOK, existing)
		return
	}
	if err != nil {
		requestLogger(r, uc.Log).WithError(err).Error("insert user")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error creating user")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// UpdateUser merges the supplied fields into the user (Admin only)
func (uc *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var body map[string]interface{}
	if err := decodeJSON(r, &body); err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	fields := store.MergeFields(body)
	if len(fields) == 0 {
		utils.WriteMessage(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	result, err := uc.Store.UpdateUser(r.Context(), id, fields)
	if errors.Is(err, store.ErrDuplicate) {
		utils.WriteMessage(w, http.StatusBadRequest, "Email already in use")
		return
	}
	if err != nil {
		requestLogger(r, uc.Log).WithError(err).Error("update user")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error updating user")
		return
	}
	uc.Roles.InvalidateRoles()
	utils.WriteJSON(w, http.StatusOK, result)
}

// DeleteUser removes a user (Admin only)
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid id")
		return
	}

	result, err := uc.Store.DeleteUser(r.Context(), id)
	if err != nil {
		requestLogger(r, uc.Log).WithError(err).Error("delete user")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error deleting user")
		return
	}
	uc.Roles.InvalidateRoles()
	utils.WriteJSON(w, http.StatusOK, result)
}
