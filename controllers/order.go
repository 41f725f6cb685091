// controllers/order.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bistro-boss/metrics"
	"bistro-boss/middleware"
	"bistro-boss/models"
	"bistro-boss/store"
	"bistro-boss/utils"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStore is the persistence the order handlers need
type OrderStore interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error)
	PlaceOrder(ctx context.Context, order models.Order, cartIDs []primitive.ObjectID) (models.InsertResult, models.DeleteResult, error)
}

// Notifier queues an email for asynchronous delivery
type Notifier interface {
	Enqueue(email utils.Email) error
}

// OrderController handles order-related requests
type OrderController struct {
	Store    OrderStore
	Notifier Notifier
	Log      logrus.FieldLogger
}

// NewOrderController creates a new OrderController
func NewOrderController(s OrderStore, notifier Notifier, log logrus.FieldLogger) *OrderController {
	return &OrderController{Store: s, Notifier: notifier, Log: log}
}

// GetOrders retrieves every order (Admin only)
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := oc.Store.ListOrders(r.Context())
	if err != nil {
		requestLogger(r, oc.Log).WithError(err).Error("list orders")
		utils.WriteMessage(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

// GetOrdersByEmail retrieves the orders of the authenticated user. Asking for
// somebody else's orders is forbidden.
func (oc *OrderController) GetOrdersByEmail(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteMessage(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}
	email := mux.Vars(r)["email"]
	if email != claims.Email {
		utils.WriteMessage(w, http.StatusForbidden, "Forbidden Access")
		return
	}

	orders, err := oc.Store.ListOrdersByEmail(r.Context(), email)
	if err != nil {
		requestLogger(r, oc.Log).WithError(err).Error("list orders by email")
		utils.WriteMessage(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

// CreateOrder records a paid order, clears the purchased cart items and
// queues a confirmation email
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteMessage(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}
	log := requestLogger(r, oc.Log)

	var order models.Order
	if err := decodeJSON(r, &order); err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cartIDs, err := store.ParseIDs(order.CartIDs)
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	if order.Email == "" {
		order.Email = claims.Email
	}
	if order.Date.IsZero() {
		order.Date = time.Now().UTC()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.CartIDs == nil {
		order.CartIDs = []string{}
	}
	if order.MenuItemIDs == nil {
		order.MenuItemIDs = []string{}
	}

	inserted, deleted, err := oc.Store.PlaceOrder(r.Context(), order, cartIDs)
	if err != nil {
		metrics.RecordCheckout(false, 0)
		var cleanupErr *store.CartCleanupError
		if errors.As(err, &cleanupErr) {
			log.WithError(err).WithField("order_id", cleanupErr.OrderID).Error("order placed but cart not cleared")
			utils.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"message": "Order placed but cart could not be cleared",
				"orderId": cleanupErr.OrderID,
			})
			return
		}
		log.WithError(err).Error("place order")
		utils.WriteMessage(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	metrics.RecordCheckout(true, order.Total)

	// Delivery happens on the notifier's workers; its outcome never reaches
	// this response.
	if order.Email != "" {
		if err := oc.Notifier.Enqueue(utils.OrderConfirmationEmail(order)); err != nil {
			log.WithError(err).WithField("to", order.Email).Warn("order confirmation not queued")
		}
	}

	utils.WriteJSON(w, http.StatusOK, models.PlaceOrderResult{
		InsertResult: inserted,
		DeleteResult: deleted,
	})
}
