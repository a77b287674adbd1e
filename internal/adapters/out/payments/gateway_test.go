package payments_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/internal/adapters/out/payments"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateway_Capture_Success(t *testing.T) {
	orderID := kernel.NewUUID()

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/capture", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gateway := payments.NewGateway(server.URL)
	err := gateway.Capture(t.Context(), orderID, 105.0)
	require.NoError(t, err)
	assert.Equal(t, orderID.String(), got["orderId"])
	assert.InDelta(t, 105.0, got["amount"], 0.0001)
}

func TestGateway_Capture_GatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "card declined", http.StatusPaymentRequired)
	}))
	defer server.Close()

	gateway := payments.NewGateway(server.URL)
	err := gateway.Capture(t.Context(), kernel.NewUUID(), 50.0)
	require.Error(t, err)

	var paymentErr *ports.PaymentError
	require.ErrorAs(t, err, &paymentErr)
	assert.Equal(t, "capture", paymentErr.Op)
	assert.Contains(t, paymentErr.Error(), "card declined")
}

func TestGateway_Refund_Success(t *testing.T) {
	orderID := kernel.NewUUID()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/refund", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gateway := payments.NewGateway(server.URL)
	require.NoError(t, gateway.Refund(t.Context(), orderID))
}

func TestGateway_Refund_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // shut down before the call

	gateway := payments.NewGateway(server.URL)
	err := gateway.Refund(t.Context(), kernel.NewUUID())
	require.Error(t, err)

	var paymentErr *ports.PaymentError
	require.ErrorAs(t, err, &paymentErr)
	assert.Equal(t, "refund", paymentErr.Op)
}
