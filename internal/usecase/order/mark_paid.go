package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
)

// MarkPaid moves the order to PAID and captures the funds into escrow.
// A retried gateway webhook with the same txn id and amount is a no-op;
// a disagreeing amount is surfaced to an operator, never auto-corrected.
func (uc *DefaultOrderUsecase) MarkPaid(ctx context.Context, orderID, gatewayTxnID string, amount float64) error {
	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}

	if order.Status == domain.StatusPaid {
		entry, entryErr := uc.escrowRepo.GetEntryByOrderID(orderID)
		if entryErr == nil && entry.TransactionRef == gatewayTxnID {
			if amount != order.Amount {
				return &domain.AmountMismatchError{OrderID: orderID, Expected: order.Amount, Got: amount}
			}
			return nil // retried webhook, same capture
		}
		return &domain.InvalidStateError{
			Entity:     "order",
			ID:         orderID,
			Current:    string(order.Status),
			Transition: "mark_paid",
		}
	}
	if order.Status != domain.StatusPendingPayment {
		return &domain.InvalidStateError{
			Entity:     "order",
			ID:         orderID,
			Current:    string(order.Status),
			Transition: "mark_paid",
		}
	}
	if amount != order.Amount {
		return &domain.AmountMismatchError{OrderID: orderID, Expected: order.Amount, Got: amount}
	}

	op := &domain.CaptureOp{
		OrderID:      orderID,
		Amount:       amount,
		GatewayTxnID: gatewayTxnID,
		Now:          time.Now(),
		Capture: func(ctx context.Context) (string, error) {
			if _, err := uc.gateway.Capture(ctx, orderID, amount, order.Currency); err != nil {
				return "", err
			}
			// The webhook's txn id is the dedup key for retries.
			return gatewayTxnID, nil
		},
	}
	if err := uc.settlementRepo.RunCapture(ctx, op); err != nil {
		uc.recordGatewayError("capture", err)
		return err
	}

	uc.publishOrderEvent(domain.EventOrderPaid, order)
	return nil
}

func (uc *DefaultOrderUsecase) recordGatewayError(op string, err error) {
	if uc.Metrics == nil {
		return
	}
	var timeout *domain.GatewayTimeoutError
	var failure *domain.GatewayFailureError
	switch {
	case errors.As(err, &timeout):
		uc.Metrics.RecordGatewayError(op, "timeout")
	case errors.As(err, &failure):
		uc.Metrics.RecordGatewayError(op, "failure")
	}
}
