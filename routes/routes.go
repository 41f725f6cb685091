// routes/routes.go
package routes

import (
	"net/http"

	"bistro-boss/controllers"
	"bistro-boss/metrics"
	"bistro-boss/middleware"
	"bistro-boss/utils"

	"github.com/gorilla/mux"
)

// Controllers bundles every handler group the router serves
type Controllers struct {
	Auth    *controllers.AuthController
	Users   *controllers.UserController
	Menus   *controllers.MenuController
	Reviews *controllers.ReviewController
	Cart    *controllers.CartController
	Orders  *controllers.OrderController
	Stats   *controllers.StatsController
	Payment *controllers.PaymentController
	Health  *controllers.HealthController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, auth *middleware.Auth, limiter *middleware.RateLimiter, c Controllers) {
	router.Use(metrics.InstrumentHandler)
	// Use only wraps matched routes
	router.NotFoundHandler = metrics.InstrumentHandler(http.HandlerFunc(notFound))
	router.MethodNotAllowedHandler = metrics.InstrumentHandler(http.HandlerFunc(methodNotAllowed))

	protected := func(h http.HandlerFunc) http.Handler {
		return auth.Authenticate(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return auth.Authenticate(auth.RequireAdmin(h))
	}
	limited := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return limiter.Handler(h)
	}

	// Operational routes
	router.HandleFunc("/", c.Health.Root).Methods("GET")
	router.HandleFunc("/healthz", c.Health.Healthz).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Authentication and payment
	router.Handle("/jwt", limited(c.Auth.IssueToken)).Methods("POST")
	router.Handle("/create-payment-intend", limited(c.Payment.CreatePaymentIntent)).Methods("POST")

	// User routes
	router.Handle("/users", admin(c.Users.ListUsers)).Methods("GET")
	router.HandleFunc("/users", c.Users.CreateUser).Methods("POST")
	router.Handle("/users/admin", protected(c.Users.CheckAdmin)).Methods("GET")
	router.Handle("/users/{id}", admin(c.Users.UpdateUser)).Methods("PATCH")
	router.Handle("/users/{id}", admin(c.Users.DeleteUser)).Methods("DELETE")

	// Menu routes
	router.HandleFunc("/menus", c.Menus.GetMenuItems).Methods("GET")
	router.HandleFunc("/menus/{id}", c.Menus.GetMenuItem).Methods("GET")
	router.Handle("/menus", admin(c.Menus.CreateMenuItem)).Methods("POST")
	router.Handle("/menus/{id}", admin(c.Menus.UpdateMenuItem)).Methods("PATCH")
	router.Handle("/menus/{id}", admin(c.Menus.DeleteMenuItem)).Methods("DELETE")

	// Review routes
	router.HandleFunc("/reviews", c.Reviews.GetReviews).Methods("GET")

	// Cart routes
	router.HandleFunc("/cart", c.Cart.GetCart).Methods("GET")
	router.HandleFunc("/cart", c.Cart.AddToCart).Methods("POST")
	router.HandleFunc("/cart/{id}", c.Cart.RemoveFromCart).Methods("DELETE")

	// Order routes
	router.Handle("/orders", admin(c.Orders.GetOrders)).Methods("GET")
	router.Handle("/orders", protected(c.Orders.CreateOrder)).Methods("POST")
	router.Handle("/orders/{email}", protected(c.Orders.GetOrdersByEmail)).Methods("GET")

	// Stats routes
	router.Handle("/admin-stats", admin(c.Stats.AdminStats)).Methods("GET")
	router.HandleFunc("/orders-stats", c.Stats.OrderStats).Methods("GET")
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteMessage(w, http.StatusNotFound, "Not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.WriteMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}
