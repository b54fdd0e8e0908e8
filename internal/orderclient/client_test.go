package orderclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/config"
)

func testInput() CreateOrderInput {
	return CreateOrderInput{
		CartItems: []CartItemInput{
			{Item: ProductInput{ID: "a", Title: "Shirt", Price: 499.5}, Quantity: 2, Color: "red"},
		},
		Customer:      CustomerInput{ID: "user_1", Email: "u@example.com", Name: "U"},
		PaymentMethod: "UPI",
		TotalAmount:   999,
	}
}

func TestCreateOrder_Success(t *testing.T) {
	var gotKey string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotKey = r.Header.Get(IdempotencyKeyHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"order-1","status":"UNVERIFIED"}`))
	}))
	defer srv.Close()

	client := NewClient(config.OrdersAPIConfig{BaseURL: srv.URL + "/v1"}, zap.NewNop())

	resp, err := client.CreateOrder(context.Background(), "attempt-1", testInput())
	require.NoError(t, err)

	assert.Equal(t, "order-1", resp.ID)
	assert.Equal(t, "attempt-1", gotKey)
	assert.Equal(t, "UPI", gotBody["paymentMethod"])
	assert.Equal(t, 999.0, gotBody["totalAmount"])
	customer := gotBody["customer"].(map[string]interface{})
	assert.Equal(t, "user_1", customer["clerkId"])
	items := gotBody["cartItems"].([]interface{})
	item := items[0].(map[string]interface{})["item"].(map[string]interface{})
	assert.Equal(t, "a", item["_id"])
}

func TestCreateOrder_EmptyAcknowledgement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(config.OrdersAPIConfig{BaseURL: srv.URL}, zap.NewNop())

	resp, err := client.CreateOrder(context.Background(), "", testInput())
	require.NoError(t, err)
	assert.Empty(t, resp.ID)
}

func TestCreateOrder_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"db down"}`))
	}))
	defer srv.Close()

	client := NewClient(config.OrdersAPIConfig{BaseURL: srv.URL}, zap.NewNop())

	_, err := client.CreateOrder(context.Background(), "k", testInput())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "db down")
}

func TestCreateOrder_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(config.OrdersAPIConfig{BaseURL: url}, zap.NewNop())

	_, err := client.CreateOrder(context.Background(), "k", testInput())
	assert.ErrorContains(t, err, "failed to execute request")
}
