package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dadikeladdu/storefront/internal/config"
	"github.com/dadikeladdu/storefront/internal/domain"
	apierrors "github.com/dadikeladdu/storefront/pkg/errors"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.BackendConfig{
		CartBaseURL:   srv.URL + "/api/cart",
		OrdersBaseURL: srv.URL + "/api/orders",
		Timeout:       5 * time.Second,
	}, staticToken("secret-token"), zap.NewNop())
	return client, srv
}

func sampleCart() *domain.Cart {
	return &domain.Cart{
		ID:     "cart-1",
		UserID: "user-1",
		Items: []domain.CartItem{
			{
				ProductID: "laddu-besan",
				Quantity:  2,
				Snapshot:  domain.ProductSnapshot{Name: "Besan Laddu", Price: 349},
				Subtotal:  698,
			},
		},
		TotalPrice: 698,
		GrandTotal: 698,
		Status:     domain.CartStatusActive,
	}
}

func TestFetchCartAttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/cart/user-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{"cart": sampleCart()})
	}))

	cart, err := client.FetchCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "cart-1", cart.ID)
	assert.Len(t, cart.Items, 1)
}

func TestAddItemSendsPayloadAndRequestID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart/add", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user-1", body["userId"])
		assert.Equal(t, "laddu-besan", body["productId"])
		assert.Equal(t, float64(2), body["quantity"])
		json.NewEncoder(w).Encode(map[string]interface{}{"cart": sampleCart()})
	}))

	cart, err := client.AddItem(context.Background(), "user-1", "laddu-besan", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 698.0, cart.GrandTotal)
}

func TestRemoveItemSendsBodyOnDelete(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/cart/remove", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user-1", body["userId"])
		assert.Equal(t, "laddu-besan", body["productId"])

		empty := domain.EmptyCart("user-1")
		json.NewEncoder(w).Encode(map[string]interface{}{"cart": empty})
	}))

	cart, err := client.RemoveItem(context.Background(), "user-1", "laddu-besan")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestBackendErrorMessageSurfacedVerbatim(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid coupon code"})
	}))

	_, err := client.ApplyCoupon(context.Background(), "user-1", "NOPE")
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid coupon code", apiErr.Message)
	assert.Equal(t, "invalid coupon code", apiErr.Error())
}

func TestNonJSONErrorBodyFallsBackToStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))

	_, err := client.FetchCart(context.Background(), "user-1")
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "502")
}

func TestClearCartIgnoresResponseBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/cart/clear/user-1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.ClearCart(context.Background(), "user-1"))
}

func TestPlaceOrderUsesOrdersBaseURL(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/place-order", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "addr-1", body["addressId"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"order": map[string]interface{}{"_id": "order-9", "status": "placed"},
		})
	}))

	order, err := client.PlaceOrder(context.Background(), "user-1", "addr-1")
	require.NoError(t, err)
	assert.Equal(t, "order-9", order.ID)
}
