package controllers

import (
	"context"
	"net/http"

	"bistro-boss/models"
	"bistro-boss/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartStore is the persistence the cart handlers need
type CartStore interface {
	ListCartItems(ctx context.Context, email string) ([]models.CartItem, error)
	InsertCartItem(ctx context.Context, item models.CartItem) (models.InsertResult, error)
	DeleteCartItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

// CartController handles cart-related requests
type CartController struct {
	Store CartStore
	Log   logrus.FieldLogger
}

// NewCartController creates a new CartController
func NewCartController(s CartStore, log logrus.FieldLogger) *CartController {
	return &CartController{Store: s, Log: log}
}

// GetCart lists the cart items of ?email=
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := cc.Store.ListCartItems(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		requestLogger(r, cc.Log).WithError(err).Error("list cart")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error fetching cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

// AddToCart stores one cart item
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var item models.CartItem
	if err := decodeJSON(r, &item); err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	result, err := cc.Store.InsertCartItem(r.Context(), item)
	if err != nil {
		requestLogger(r, cc.Log).WithError(err).Error("insert cart item")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error adding to cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// RemoveFromCart deletes one cart item by ID
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid id")
		return
	}

	result, err := cc.Store.DeleteCartItem(r.Context(), id)
	if err != nil {
		requestLogger(r, cc.Log).WithError(err).Error("delete cart item")
		utils.WriteMessage(w, http.StatusInternalServerError, "Error removing from cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
