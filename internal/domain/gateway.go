package domain

import "context"

// PaymentGateway is the external money-moving boundary. All calls are
// blocking and must be invoked with a caller-supplied timeout on ctx.
type PaymentGateway interface {
	Capture(ctx context.Context, orderID string, amount float64, currency string) (txnID string, err error)
	Payout(ctx context.Context, orderID, recipientID string, amount float64, currency string) (txnID string, err error)
	Refund(ctx context.Context, orderID, payerID string, amount float64, currency string) (txnID string, err error)
}
