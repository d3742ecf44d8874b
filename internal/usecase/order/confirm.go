package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/logger"
)

// ConfirmByBuyer is the terminal success path: full escrow release to the
// seller minus the platform fee. Early confirmation while the order is
// still SHIPPING is allowed, mirroring the product behavior.
func (uc *DefaultOrderUsecase) ConfirmByBuyer(ctx context.Context, orderID, buyerID string) error {
	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if order.BuyerID != buyerID {
		return domain.ErrNotBuyer
	}
	return uc.confirm(ctx, order, "buyer_confirm", buyerID)
}

// ConfirmBySystem is invoked by the auto-confirm reconciliation job with
// caller = system; it only applies to DELIVERED orders.
func (uc *DefaultOrderUsecase) ConfirmBySystem(ctx context.Context, orderID string) error {
	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusDelivered {
		return &domain.InvalidStateError{
			Entity:     "order",
			ID:         orderID,
			Current:    string(order.Status),
			Transition: "auto_confirm",
		}
	}
	return uc.confirm(ctx, order, "auto_confirm", "system")
}

func (uc *DefaultOrderUsecase) confirm(ctx context.Context, order *domain.Order, operation, callerID string) error {
	if order.Status != domain.StatusDelivered && order.Status != domain.StatusShipping {
		return &domain.InvalidStateError{
			Entity:     "order",
			ID:         order.ID,
			Current:    string(order.Status),
			Transition: operation,
		}
	}

	entry, err := uc.escrowRepo.GetEntryByOrderID(order.ID)
	if err != nil {
		return err
	}
	seller, err := uc.userRepo.GetUserByID(order.SellerID)
	if err != nil {
		return err
	}
	feeRate := uc.fees.RateFor(seller)
	sellerPayout := domain.SellerPayout(entry.CapturedAmount, 0, feeRate)

	op := &domain.SettlementOp{
		OrderID:      order.ID,
		Operation:    operation,
		FromStatus:   order.Status,
		ToStatus:     domain.StatusConfirmed,
		SellerAmount: sellerPayout,
		Now:          time.Now(),
		Settle: func(ctx context.Context, held *domain.EscrowEntry) (*domain.SettlementOutcome, error) {
			txnRef, err := uc.gateway.Payout(ctx, order.ID, order.SellerID, sellerPayout, order.Currency)
			if err != nil {
				return nil, err
			}
			return &domain.SettlementOutcome{
				EscrowStatus: domain.EscrowReleased,
				PayoutTxnRef: txnRef,
			}, nil
		},
	}
	if err := uc.settlementRepo.RunSettlement(ctx, op); err != nil {
		uc.logSettlementAttempt(order.ID, operation, callerID, sellerPayout, 0, err)
		uc.recordSettlementError(operation, err)
		return err
	}

	// Terminal success: both parties count one more completed transaction.
	if err := uc.userRepo.IncrementCompletedOrders(order.BuyerID, order.SellerID); err != nil {
		slog.Error("failed to increment completed orders", "order_id", order.ID, "error", err.Error())
	}
	uc.logSettlementAttempt(order.ID, operation, callerID, sellerPayout, 0, nil)
	if uc.Metrics != nil {
		uc.Metrics.RecordSettlement(operation, string(domain.StatusConfirmed), order.Currency,
			sellerPayout, 0, domain.RoundMoney(entry.CapturedAmount-sellerPayout))
	}

	kind := domain.EventOrderConfirmed
	if operation == "auto_confirm" {
		kind = domain.EventAutoConfirmed
	}
	uc.publishOrderEvent(kind, order)
	return nil
}

func (uc *DefaultOrderUsecase) logSettlementAttempt(orderID, operation, callerID string, sellerAmount, buyerRefund float64, attemptErr error) {
	if uc.eventLogger == nil {
		return
	}
	event := logger.SettlementAttemptEvent{
		OrderID:      orderID,
		Operation:    operation,
		CallerID:     callerID,
		SellerAmount: sellerAmount,
		BuyerRefund:  buyerRefund,
		Succeeded:    attemptErr == nil,
		Timestamp:    time.Now(),
	}
	if attemptErr != nil {
		event.Error = attemptErr.Error()
	}
	if err := uc.eventLogger.LogSettlementAttempt(context.Background(), event); err != nil {
		slog.Error("failed to log settlement attempt", "order_id", orderID, "error", err.Error())
	}
}

func (uc *DefaultOrderUsecase) recordSettlementError(operation string, err error) {
	if uc.Metrics == nil {
		return
	}
	var settled *domain.AlreadySettledError
	var partial *domain.PartialReleaseError
	switch {
	case errors.As(err, &settled):
		uc.Metrics.RecordSettlementConflict(operation)
	case errors.As(err, &partial):
		uc.Metrics.RecordPartialRelease(partial.FailedLeg)
	default:
		uc.recordGatewayError(operation, err)
	}
}
