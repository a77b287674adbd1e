// Package payments provides the HTTP client implementation of the
// PaymentGateway port. The platform never computes settlement itself: capture
// and refund are requests to the external gateway service, and only the
// confirmed outcome is recorded on the order.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Gateway calls the external payment service over HTTP.
type Gateway struct {
	baseURL string
	client  *http.Client
}

// NewGateway creates a gateway client for the service at baseURL.
func NewGateway(baseURL string) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type captureRequest struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
}

type refundRequest struct {
	OrderID string `json:"orderId"`
}

// Capture charges the buyer and places amount in escrow for the order.
// Failures come back as *ports.PaymentError and are never retried here.
func (g *Gateway) Capture(ctx context.Context, orderID kernel.UUID, amount float64) error {
	body := captureRequest{OrderID: orderID.String(), Amount: amount}
	if err := g.post(ctx, "/capture", body); err != nil {
		return &ports.PaymentError{Op: "capture", OrderID: orderID, Cause: err}
	}
	return nil
}

// Refund returns the escrowed amount of a cancelled order to the buyer.
func (g *Gateway) Refund(ctx context.Context, orderID kernel.UUID) error {
	body := refundRequest{OrderID: orderID.String()}
	if err := g.post(ctx, "/refund", body); err != nil {
		return &ports.PaymentError{Op: "refund", OrderID: orderID, Cause: err}
	}
	return nil
}

func (g *Gateway) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway responded %d: %s", resp.StatusCode, detail)
	}

	return nil
}
