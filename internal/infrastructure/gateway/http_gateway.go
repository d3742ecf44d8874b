package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
)

// HTTPPaymentGateway talks to the payment gateway service over HTTP.
// The wire protocol is opaque to the core: every call either returns a
// transaction id or a typed failure.
type HTTPPaymentGateway struct {
	Address string
	Timeout time.Duration
	client  *http.Client
}

func NewHTTPPaymentGateway(address string, timeout time.Duration) *HTTPPaymentGateway {
	return &HTTPPaymentGateway{
		Address: address,
		Timeout: timeout,
		client:  &http.Client{},
	}
}

type moneyRequest struct {
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Recipient string  `json:"recipient,omitempty"`
	Payer     string  `json:"payer,omitempty"`
}

type moneyResponse struct {
	TxnID string `json:"txn_id"`
	Error string `json:"error"`
}

func (g *HTTPPaymentGateway) Capture(ctx context.Context, orderID string, amount float64, currency string) (string, error) {
	return g.post(ctx, "capture", moneyRequest{OrderID: orderID, Amount: amount, Currency: currency})
}

func (g *HTTPPaymentGateway) Payout(ctx context.Context, orderID, recipientID string, amount float64, currency string) (string, error) {
	return g.post(ctx, "payout", moneyRequest{OrderID: orderID, Amount: amount, Currency: currency, Recipient: recipientID})
}

func (g *HTTPPaymentGateway) Refund(ctx context.Context, orderID, payerID string, amount float64, currency string) (string, error) {
	return g.post(ctx, "refund", moneyRequest{OrderID: orderID, Amount: amount, Currency: currency, Payer: payerID})
}

func (g *HTTPPaymentGateway) post(ctx context.Context, op string, body moneyRequest) (string, error) {
	requestBodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/payments/%s", g.Address, op), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &domain.GatewayTimeoutError{Op: op}
		}
		return "", &domain.GatewayFailureError{Op: op, Reason: err.Error()}
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	var gatewayResponse moneyResponse
	if err := json.Unmarshal(responseBodyBytes, &gatewayResponse); err != nil {
		return "", &domain.GatewayFailureError{Op: op, Reason: fmt.Sprintf("bad response: %v", err)}
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return gatewayResponse.TxnID, nil
	}
	return "", &domain.GatewayFailureError{Op: op, Reason: gatewayResponse.Error}
}
