package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"bistro-boss/models"
	"bistro-boss/store"
	"bistro-boss/utils"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

const roleCacheSize = 1024

// UserLookup finds the stored user behind a token email
type UserLookup interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenParser verifies bearer tokens
type TokenParser interface {
	Parse(tokenString string) (*utils.Claims, error)
}

// Auth holds the authenticate/requireAdmin pair
type Auth struct {
	tokens TokenParser
	users  UserLookup
	roles  *expirable.LRU[string, string]
	log    logrus.FieldLogger
}

// NewAuth creates the middleware. A positive roleTTL caches admin role
// lookups for that long; zero looks the role up on every request.
func NewAuth(tokens TokenParser, users UserLookup, roleTTL time.Duration, log logrus.FieldLogger) *Auth {
	a := &Auth{tokens: tokens, users: users, log: log}
	if roleTTL > 0 {
		a.roles = expirable.NewLRU[string, string](roleCacheSize, nil, roleTTL)
	}
	return a
}

// ClaimsFromContext returns the claims attached by Authenticate
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	return claims, ok
}

// Authenticate verifies JWT tokens and attaches user information to the context
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteMessage(w, http.StatusUnauthorized, "Unauthorized Access")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			utils.WriteMessage(w, http.StatusUnauthorized, "Unauthorized Access")
			return
		}

		claims, err := a.tokens.Parse(parts[1])
		if err != nil {
			utils.WriteMessage(w, http.StatusUnauthorized, "Unauthorized Access")
			return
		}

		// Attach user information to the request context
		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin ensures the authenticated email belongs to an admin. It must
// run after Authenticate.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Email == "" {
			utils.WriteMessage(w, http.StatusForbidden, "Forbidden Access")
			return
		}

		role, err := a.role(r.Context(), claims.Email)
		if err != nil {
			LoggerFromContext(r.Context(), a.log).WithError(err).Error("admin role lookup failed")
			utils.WriteMessage(w, http.StatusInternalServerError, "Database error")
			return
		}
		if role != models.RoleAdmin {
			utils.WriteMessage(w, http.StatusForbidden, "Forbidden Access")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// InvalidateRoles drops every cached role. Called after any user change.
func (a *Auth) InvalidateRoles() {
	if a.roles != nil {
		a.roles.Purge()
	}
}

func (a *Auth) role(ctx context.Context, email string) (string, error) {
	if a.roles != nil {
		if role, ok := a.roles.Get(email); ok {
			return role, nil
		}
	}

	user, err := a.users.FindUserByEmail(ctx, email)
	role := ""
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return "", err
	default:
		role = user.Role
	}

	if a.roles != nil {
		a.roles.Add(email, role)
	}
	return role, nil
}
