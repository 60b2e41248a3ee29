package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() models.OrderRequest {
	return models.OrderRequest{
		ArtworkURL: "https://example.com/dragon.jpg",
		ProductID:  "mug",
		Recipient: models.Recipient{
			Name:     "Jordan Parent",
			Address1: "1 Main St",
			City:     "Springfield",
			State:    "IL",
			Zip:      "62701",
		},
		PaymentToken: "tok_visa",
	}
}

func TestSubmitOrderPostsToProvider(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"result":{"id":12345}}`))
	}))
	defer server.Close()

	service := NewFulfillmentService(FulfillmentServiceConfig{APIURL: server.URL, APIKey: "secret"})

	result, err := service.SubmitOrder(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "12345", result.OrderID)

	recipient := received["recipient"].(map[string]any)
	assert.Equal(t, "IL", recipient["state_code"])
	assert.Equal(t, "US", recipient["country_code"])

	items := received["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, float64(1320), item["variant_id"])
	assert.Equal(t, float64(1), item["quantity"])
}

func TestSubmitOrderSurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":400,"error":{"message":"Invalid address"}}`))
	}))
	defer server.Close()

	service := NewFulfillmentService(FulfillmentServiceConfig{APIURL: server.URL, APIKey: "secret"})

	_, err := service.SubmitOrder(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid address")
}

func TestSubmitOrderWithoutKeyIsNotConfigured(t *testing.T) {
	service := NewFulfillmentService(FulfillmentServiceConfig{})

	assert.False(t, service.Configured())

	_, err := service.SubmitOrder(context.Background(), testOrder())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestValidateOrderRequiresAddress(t *testing.T) {
	order := testOrder()
	order.Recipient.City = " "
	order.ProductID = "poster"

	_, err := ValidateOrder(order)

	var v ValidationErrors
	require.ErrorAs(t, err, &v)
	assert.True(t, v.Has("city"))
	assert.True(t, v.Has("product"))
}

func TestDemoPaymentAcceptsTestTokens(t *testing.T) {
	payments := NewDemoPaymentService()

	assert.NoError(t, payments.Verify(context.Background(), "tok_visa", 14.99))
	assert.ErrorIs(t, payments.Verify(context.Background(), "card_123", 14.99), ErrPaymentDeclined)
	assert.ErrorIs(t, payments.Verify(context.Background(), "tok_visa", 0), ErrPaymentDeclined)
}
