package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"bistro-boss/models"
	"bistro-boss/store"
	"bistro-boss/testutil"
	"bistro-boss/utils"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type stubUsers struct {
	mu      sync.Mutex
	users   map[string]models.User
	lookups int
}

func (s *stubUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	u, ok := s.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *stubUsers) setRole(email, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[email]
	u.Role = role
	s.users[email] = u
}

func newTestAuth(t *testing.T, roleTTL time.Duration) (*Auth, *utils.TokenManager, *stubUsers) {
	t.Helper()
	tokens := utils.NewTokenManager("test-secret")
	users := &stubUsers{users: map[string]models.User{
		"chef@bistro.com":  {Email: "chef@bistro.com", Role: models.RoleAdmin},
		"diner@bistro.com": {Email: "diner@bistro.com", Role: models.RoleUser},
	}}
	logger, _ := test.NewNullLogger()
	return NewAuth(tokens, users, roleTTL, logger), tokens, users
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		w.Header().Set("X-Email", claims.Email)
		w.WriteHeader(http.StatusOK)
	})
}

func bearer(t *testing.T, tokens *utils.TokenManager, email string) string {
	t.Helper()
	return "Bearer " + testutil.Token(t, tokens, email, "")
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	auth, tokens, _ := newTestAuth(t, 0)
	h := auth.Authenticate(okHandler())

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"foreign secret", "Bearer " + mustToken(t, utils.NewTokenManager("other"), "diner@bistro.com"), http.StatusUnauthorized},
		{"valid token", bearer(t, tokens, "diner@bistro.com"), http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := serve(h, c.header)
			assert.Equal(t, c.want, rec.Code)
			if c.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"message":"Unauthorized Access"}`, rec.Body.String())
			}
		})
	}

	rec := serve(h, bearer(t, tokens, "diner@bistro.com"))
	assert.Equal(t, "diner@bistro.com", rec.Header().Get("X-Email"))
}

func mustToken(t *testing.T, tm *utils.TokenManager, email string) string {
	t.Helper()
	return testutil.Token(t, tm, email, "")
}

func TestRequireAdmin(t *testing.T) {
	auth, tokens, _ := newTestAuth(t, 0)
	h := auth.Authenticate(auth.RequireAdmin(okHandler()))

	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)

	rec := serve(h, bearer(t, tokens, "diner@bistro.com"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Forbidden Access"}`, rec.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(h, bearer(t, tokens, "stranger@bistro.com")).Code)
	assert.Equal(t, http.StatusOK, serve(h, bearer(t, tokens, "chef@bistro.com")).Code)
}

func TestRequireAdmin_IgnoresRoleClaim(t *testing.T) {
	auth, tokens, _ := newTestAuth(t, 0)
	h := auth.Authenticate(auth.RequireAdmin(okHandler()))

	token := testutil.Token(t, tokens, "diner@bistro.com", models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer "+token).Code)
}

func TestRequireAdmin_RoleCache(t *testing.T) {
	auth, tokens, users := newTestAuth(t, time.Minute)
	h := auth.Authenticate(auth.RequireAdmin(okHandler()))
	header := bearer(t, tokens, "chef@bistro.com")

	assert.Equal(t, http.StatusOK, serve(h, header).Code)
	assert.Equal(t, http.StatusOK, serve(h, header).Code)
	assert.Equal(t, 1, users.lookups)

	users.setRole("chef@bistro.com", models.RoleUser)
	assert.Equal(t, http.StatusOK, serve(h, header).Code, "cached role still served")

	auth.InvalidateRoles()
	assert.Equal(t, http.StatusForbidden, serve(h, header).Code)
	assert.Equal(t, 2, users.lookups)
}

func TestRequireAdmin_NoCacheLooksUpEveryTime(t *testing.T) {
	auth, tokens, users := newTestAuth(t, 0)
	h := auth.Authenticate(auth.RequireAdmin(okHandler()))
	header := bearer(t, tokens, "chef@bistro.com")

	serve(h, header)
	serve(h, header)
	assert.Equal(t, 2, users.lookups)
}
