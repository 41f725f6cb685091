package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bistro-boss/middleware"
	"bistro-boss/models"
	"bistro-boss/store"
	"bistro-boss/testutil"
	"bistro-boss/utils"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func withClaims(r *http.Request, email string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, &utils.Claims{Email: email})
	return r.WithContext(ctx)
}

// failingCleanupStore inserts the order but fails to clear the cart
type failingCleanupStore struct {
	*testutil.MemStore
	orderID primitive.ObjectID
}

func (s *failingCleanupStore) PlaceOrder(ctx context.Context, order models.Order, cartIDs []primitive.ObjectID) (models.InsertResult, models.DeleteResult, error) {
	return models.InsertResult{}, models.DeleteResult{}, &store.CartCleanupError{OrderID: s.orderID, Err: errors.New("connection reset")}
}

type rejectingNotifier struct{ calls int }

func (n *rejectingNotifier) Enqueue(utils.Email) error {
	n.calls++
	return errors.New("queue closed")
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateRoles() { c.calls++ }

func TestCreateOrder_CartCleanupFailureReportsOrderID(t *testing.T) {
	s := &failingCleanupStore{MemStore: testutil.NewMemStore(), orderID: primitive.NewObjectID()}
	notifier := &testutil.RecordingNotifier{}
	oc := NewOrderController(s, notifier, nullLogger())

	body := `{"total": 10, "cartIds": ["` + primitive.NewObjectID().Hex() + `"]}`
	req := withClaims(httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body)), "diner@bistro.com")
	rec := httptest.NewRecorder()
	oc.CreateOrder(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), s.orderID.Hex())
	assert.Empty(t, notifier.Sent())
}

func TestCreateOrder_DefaultsEmailFromToken(t *testing.T) {
	mem := testutil.NewMemStore()
	notifier := &testutil.RecordingNotifier{}
	oc := NewOrderController(mem, notifier, nullLogger())

	req := withClaims(httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"total": 4.5}`)), "diner@bistro.com")
	rec := httptest.NewRecorder()
	oc.CreateOrder(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	orders, err := mem.ListOrdersByEmail(context.Background(), "diner@bistro.com")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPending, orders[0].Status)
	assert.False(t, orders[0].Date.IsZero())
	assert.NotNil(t, orders[0].CartIDs)
	assert.Len(t, notifier.Sent(), 1)
}

func TestCreateOrder_NotifierFailureDoesNotFailCheckout(t *testing.T) {
	notifier := &rejectingNotifier{}
	oc := NewOrderController(testutil.NewMemStore(), notifier, nullLogger())

	req := withClaims(httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"total": 8}`)), "diner@bistro.com")
	rec := httptest.NewRecorder()
	oc.CreateOrder(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, notifier.calls)
}

func TestCreatePaymentIntent_Unconfigured(t *testing.T) {
	pc := NewPaymentController(nil, nullLogger())

	rec := httptest.NewRecorder()
	pc.CreatePaymentIntent(rec, httptest.NewRequest(http.MethodPost, "/create-payment-intend", bytes.NewBufferString(`{"total": 12}`)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUserChangesInvalidateRoles(t *testing.T) {
	mem := testutil.NewMemStore()
	id := mem.AddUser("sous@bistro.com", models.RoleUser)
	roles := &countingInvalidator{}
	uc := NewUserController(mem, roles, nullLogger())

	req := httptest.NewRequest(http.MethodPatch, "/users/"+id.Hex(), bytes.NewBufferString(`{"role":"admin","_id":"ignored"}`))
	req = mux.SetURLVars(req, map[string]string{"id": id.Hex()})
	rec := httptest.NewRecorder()
	uc.UpdateUser(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, roles.calls)

	user, err := mem.FindUserByEmail(context.Background(), "sous@bistro.com")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
	assert.Equal(t, id, user.ID)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/users/"+id.Hex(), nil), map[string]string{"id": id.Hex()})
	rec = httptest.NewRecorder()
	uc.DeleteUser(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, roles.calls)
}

func TestIssueToken_ForcesExpiry(t *testing.T) {
	tokens := utils.NewTokenManager("secret")
	ac := NewAuthController(tokens, nullLogger())

	rec := httptest.NewRecorder()
	ac.IssueToken(rec, httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewBufferString(`{"email":"diner@bistro.com","exp":1}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	claims, err := tokens.Parse(out["token"])
	require.NoError(t, err)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
}
