package httpx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/catalog"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/httpx"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/ordering"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/payment"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/session"
)

type fakeCatalog struct{ items []string }

func (f fakeCatalog) Menu(context.Context) (*ordering.StaticMenu, error) {
	return ordering.NewStaticMenu(f.items...), nil
}

func (f fakeCatalog) AvailableItems(context.Context) ([]string, error) { return f.items, nil }

type fakeProfiles map[string]string

func (f fakeProfiles) Profile(_ context.Context, userID string) (ordering.UserProfile, error) {
	addr, ok := f[userID]
	if !ok {
		return ordering.UserProfile{}, catalog.ErrProfileNotFound
	}
	return ordering.UserProfile{UserID: userID, DeliveryAddress: addr}, nil
}

type savedOrder struct {
	profile ordering.UserProfile
	totals  ordering.Totals
	lines   []ordering.Line
}

type fakeStore struct {
	saved    map[string]savedOrder
	statuses map[string]ordering.Status
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: map[string]savedOrder{}, statuses: map[string]ordering.Status{}}
}

func (s *fakeStore) SaveConfirmed(_ context.Context, orderID string, profile ordering.UserProfile, totals ordering.Totals, lines []ordering.Line) error {
	s.saved[orderID] = savedOrder{profile: profile, totals: totals, lines: lines}
	s.statuses[orderID] = ordering.StatusConfirmed
	return nil
}

func (s *fakeStore) GetOrderStatus(_ context.Context, orderID string) (ordering.Status, error) {
	st, ok := s.statuses[orderID]
	if !ok {
		return "", ordering.ErrOrderNotFound
	}
	return st, nil
}

type fakeCache struct{ m map[string]ordering.Status }

func newFakeCache() *fakeCache { return &fakeCache{m: map[string]ordering.Status{}} }

func (c *fakeCache) SetStatus(_ context.Context, orderID string, status ordering.Status) error {
	c.m[orderID] = status
	return nil
}

func (c *fakeCache) GetStatus(_ context.Context, orderID string) (ordering.Status, bool, error) {
	st, ok := c.m[orderID]
	return st, ok, nil
}

type fakePublisher struct{ values [][]byte }

func (p *fakePublisher) Publish(_, value []byte, _ ...kafkago.Header) {
	p.values = append(p.values, value)
}

type env struct {
	router    *chi.Mux
	store     *fakeStore
	cache     *fakeCache
	confirmed *fakePublisher
	failed    *fakePublisher
}

func newEnv(t *testing.T) *env {
	t.Helper()

	sessions := session.NewStore()
	e := &env{
		router:    httpx.NewRouter(),
		store:     newFakeStore(),
		cache:     newFakeCache(),
		confirmed: &fakePublisher{},
		failed:    &fakePublisher{},
	}

	ch := &httpx.CartHandler{
		Sessions: sessions,
		Menus:    fakeCatalog{items: []string{"Pizza", "Burger", "Salad"}},
		Profiles: fakeProfiles{"u1": "123 Main St"},
		Fee:      ordering.DefaultDeliveryFee,
		Log:      zap.NewNop(),
	}
	oh := &httpx.OrdersHandler{
		Sessions:  sessions,
		Store:     e.store,
		Cache:     e.cache,
		Payments:  payment.NewProcessor(payment.SimulatedGateway{}),
		Confirmed: e.confirmed,
		Failed:    e.failed,
		Service:   "order-api-test",
		Log:       zap.NewNop(),
	}
	ch.Register(e.router)
	oh.Register(e.router)
	return e
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func (e *env) openCart(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/carts", map[string]string{"user_id": "u1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp["cart_id"])
	return resp["cart_id"]
}

func (e *env) addPizza(t *testing.T, cartID string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/carts/"+cartID+"/items",
		map[string]any{"name": "Pizza", "unit_price": "12.99", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCreateCart(t *testing.T) {
	e := newEnv(t)

	t.Run("unknown user", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/carts", map[string]string{"user_id": "nobody"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing user id", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/carts", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		id := e.openCart(t)
		w := e.do(t, http.MethodGet, "/carts/"+id, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAddItemEndpoint(t *testing.T) {
	e := newEnv(t)
	id := e.openCart(t)

	w := e.do(t, http.MethodPost, "/carts/"+id+"/items",
		map[string]any{"name": "Pizza", "unit_price": "12.99", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Result string          `json:"result"`
		Totals ordering.Totals `json:"totals"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "added", resp.Result)
	assert.True(t, resp.Totals.Total.Equal(decimal.RequireFromString("19.289")), "total %s", resp.Totals.Total)

	// same name again accumulates and reports "updated"
	w = e.do(t, http.MethodPost, "/carts/"+id+"/items",
		map[string]any{"name": "Pizza", "unit_price": "12.99", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "updated", resp.Result)

	t.Run("bad quantity", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/carts/"+id+"/items",
			map[string]any{"name": "Salad", "unit_price": "5", "quantity": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown cart", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/carts/does-not-exist/items",
			map[string]any{"name": "Pizza", "unit_price": "12.99", "quantity": 1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateAndRemoveItemEndpoints(t *testing.T) {
	e := newEnv(t)
	id := e.openCart(t)
	e.addPizza(t, id)

	w := e.do(t, http.MethodPut, "/carts/"+id+"/items/Pizza", map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPut, "/carts/"+id+"/items/Taco", map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// removal is idempotent
	w = e.do(t, http.MethodDelete, "/carts/"+id+"/items/Pizza", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(t, http.MethodDelete, "/carts/"+id+"/items/Pizza", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCheckoutEndpoint(t *testing.T) {
	e := newEnv(t)
	id := e.openCart(t)
	e.addPizza(t, id)

	w := e.do(t, http.MethodPost, "/carts/"+id+"/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary ordering.CheckoutSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, "123 Main St", summary.DeliveryAddress)
	require.Len(t, summary.Items, 1)
	assert.True(t, summary.Totals.Total.Equal(decimal.RequireFromString("19.289")))
}

func confirmBody(card string) map[string]string {
	return map[string]string{
		"payment_method": payment.MethodCreditCard,
		"card_number":    card,
		"expiry_date":    "12/25",
		"cvv":            "123",
	}
}

func TestConfirmOrderEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e := newEnv(t)
		id := e.openCart(t)
		e.addPizza(t, id)

		w := e.do(t, http.MethodPost, "/carts/"+id+"/confirm", confirmBody("1234567812345678"))
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			OrderID              string `json:"order_id"`
			EstimatedDeliveryMin int    `json:"estimated_delivery_min"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.NotEmpty(t, resp.OrderID)
		assert.Equal(t, 45, resp.EstimatedDeliveryMin)

		saved, ok := e.store.saved[resp.OrderID]
		require.True(t, ok, "order not persisted")
		assert.Equal(t, "u1", saved.profile.UserID)
		assert.True(t, saved.totals.Total.Equal(decimal.RequireFromString("19.289")))
		assert.Equal(t, ordering.StatusConfirmed, e.cache.m[resp.OrderID])
		assert.Len(t, e.confirmed.values, 1)
		assert.Empty(t, e.failed.values)

		var ev ordering.Envelope
		require.NoError(t, json.Unmarshal(e.confirmed.values[0], &ev))
		assert.Equal(t, ordering.EventOrderConfirmed, ev.EventType)
		assert.Equal(t, resp.OrderID, ev.CorrelationID)
	})

	t.Run("gateway decline", func(t *testing.T) {
		e := newEnv(t)
		id := e.openCart(t)
		e.addPizza(t, id)

		w := e.do(t, http.MethodPost, "/carts/"+id+"/confirm", confirmBody("1111222233334444"))
		assert.Equal(t, http.StatusPaymentRequired, w.Code)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Payment failed, please try again", resp["error"])
		assert.Empty(t, e.store.saved)
		assert.Len(t, e.failed.values, 1)
	})

	t.Run("empty cart", func(t *testing.T) {
		e := newEnv(t)
		id := e.openCart(t)

		w := e.do(t, http.MethodPost, "/carts/"+id+"/confirm", confirmBody("1234567812345678"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Empty(t, e.store.saved)
	})

	t.Run("malformed card", func(t *testing.T) {
		e := newEnv(t)
		id := e.openCart(t)
		e.addPizza(t, id)

		w := e.do(t, http.MethodPost, "/carts/"+id+"/confirm", confirmBody("123456781234567"))
		assert.Equal(t, http.StatusPaymentRequired, w.Code)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Error: invalid credit card details", resp["error"])
	})
}

func TestGetOrderEndpoint(t *testing.T) {
	e := newEnv(t)

	t.Run("cache hit", func(t *testing.T) {
		e.cache.m["ord-1"] = ordering.StatusConfirmed
		w := e.do(t, http.MethodGet, "/orders/ord-1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "CONFIRMED", resp["status"])
	})

	t.Run("store fallback fills the cache", func(t *testing.T) {
		e.store.statuses["ord-2"] = ordering.StatusConfirmed
		w := e.do(t, http.MethodGet, "/orders/ord-2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, ordering.StatusConfirmed, e.cache.m["ord-2"])
	})

	t.Run("unknown order", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/orders/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMenuEndpoint(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []string `json:"items"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"Pizza", "Burger", "Salad"}, resp.Items)
}

func TestConfirmedOrderClearsCart(t *testing.T) {
	e := newEnv(t)
	id := e.openCart(t)
	e.addPizza(t, id)

	w := e.do(t, http.MethodPost, "/carts/"+id+"/confirm", confirmBody("1234567812345678"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodGet, "/carts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Status ordering.Status `json:"status"`
		Items  []ordering.Line `json:"items"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Equal(t, ordering.StatusConfirmed, view.Status)
	assert.Empty(t, view.Items)

	// terminal: confirming again is a conflict, and the repeat attempt must
	// not emit a failure event for an order that actually went through
	w = e.do(t, http.MethodPost, "/carts/"+id+"/confirm", confirmBody("1234567812345678"))
	assert.Equal(t, http.StatusConflict, w.Code, fmt.Sprintf("body: %s", w.Body.String()))
	assert.Len(t, e.confirmed.values, 1)
	assert.Empty(t, e.failed.values)
}
