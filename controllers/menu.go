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

// MenuStore is the persistence the menu handlers need
type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	FindMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error)
	FindMenuItemByName(ctx context.Context, name string) (*models.MenuItem, error)
	InsertMenuItem(ctx context.Context, item models.MenuItem) (models.InsertResult, error)
	UpdateMenuItem(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error)
	DeleteMenuItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

// MenuController handles menu-related requests
type MenuController struct {
	Store MenuStore
	Log   logrus.FieldLogger
}

// NewMenuController creates a new MenuController
func NewMenuController(s MenuStore, log logrus.FieldLogger) *MenuController {
	return &MenuController{Store: s, Log: log}
}

// GetMenuItems retrieves the whole menu
func (mc *MenuController) GetMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := mc.Store.ListMenuItems(r.Context())
	if err != nil {
		requestLogger(r, mc.Log).WithError(err).Error("list menu")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error fetching menu")
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

// GetMenuItem retrieves a single menu item by ID
func (mc *MenuController) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid id")
		return
	}

	item, err := mc.Store.FindMenuItem(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteMessage(w, http.StatusNotFound, "Menu item not found")
		return
	}
	if err != nil {
		requestLogger(r, mc.Log).WithError(err).Error("find menu item")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error fetching menu item")
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}

// CreateMenuItem adds a dish (Admin only). All five fields are required and
// the name must be unique.
func (mc *MenuController) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := decodeJSON(r, &item); err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !item.Complete() {
		utils.WriteMessage(w, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	_, err := mc.Store.FindMenuItemByName(r.Context(), item.Name)
	if err == nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Item already exists")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		requestLogger(r, mc.Log).WithError(err).Error("lookup menu item")
		utils.WriteMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	result, err := mc.Store.InsertMenuItem(r.Context(), models.MenuItem{
		Name:     item.Name,
		Price:    item.Price,
		Image:    item.Image,
		Category: item.Category,
		Recipe:   item.Recipe,
	})
	if errors.Is(err, store.ErrDuplicate) {
		utils.WriteMessage(w, http.StatusBadRequest, "Item already exists")
		return
	}
	if err != nil {
		requestLogger(r, mc.Log).WithError(err).Error("insert menu item")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error creating menu item")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// UpdateMenuItem merges the supplied fields into the item (Admin only)
func (mc *MenuController) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
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

	result, err := mc.Store.UpdateMenuItem(r.Context(), id, fields)
	if errors.Is(err, store.ErrDuplicate) {
		utils.WriteMessage(w, http.StatusBadRequest, "Item already exists")
		return
	}
	if err != nil {
		requestLogger(r, mc.Log).WithError(err).Error("update menu item")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error updating menu item")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// DeleteMenuItem removes a dish (Admin only)
func (mc *MenuController) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid id")
		return
	}

	result, err := mc.Store.DeleteMenuItem(r.Context(), id)
	if err != nil {
		requestLogger(r, mc.Log).WithError(err).Error("delete menu item")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error deleting menu item")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
