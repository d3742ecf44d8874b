package usecase

import (
	"context"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
)

// SettleFromDispute splits the escrow according to the verdict: the buyer
// gets capturedAmount * rate fee-free, the seller gets the remainder minus
// the platform fee. Called only by the dispute state machine on resolution.
func (uc *DefaultOrderUsecase) SettleFromDispute(ctx context.Context, orderID string, buyerRefundRate float64) error {
	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusDisputed {
		return &domain.InvalidStateError{
			Entity:     "order",
			ID:         orderID,
			Current:    string(order.Status),
			Transition: "dispute_settle",
		}
	}

	entry, err := uc.escrowRepo.GetEntryByOrderID(orderID)
	if err != nil {
		return err
	}
	seller, err := uc.userRepo.GetUserByID(order.SellerID)
	if err != nil {
		return err
	}
	feeRate := uc.fees.RateFor(seller)
	sellerPayout := domain.SellerPayout(entry.CapturedAmount, buyerRefundRate, feeRate)
	buyerRefund := domain.BuyerRefund(entry.CapturedAmount, buyerRefundRate)

	toStatus := domain.StatusConfirmed
	escrowStatus := domain.EscrowReleased
	if buyerRefundRate >= 1.0 {
		toStatus = domain.StatusRefunded
		escrowStatus = domain.EscrowRefunded
	}

	op := &domain.SettlementOp{
		OrderID:           orderID,
		Operation:         "dispute_settle",
		FromStatus:        domain.StatusDisputed,
		ToStatus:          toStatus,
		SellerAmount:      sellerPayout,
		BuyerRefundAmount: buyerRefund,
		Now:               time.Now(),
		Settle: func(ctx context.Context, held *domain.EscrowEntry) (*domain.SettlementOutcome, error) {
			var payoutRef, refundRef string
			if sellerPayout > 0 {
				ref, err := uc.gateway.Payout(ctx, orderID, order.SellerID, sellerPayout, order.Currency)
				if err != nil {
					return nil, err
				}
				payoutRef = ref
			}
			if buyerRefund > 0 {
				ref, err := uc.gateway.Refund(ctx, orderID, order.BuyerID, buyerRefund, order.Currency)
				if err != nil {
					if payoutRef == "" {
						return nil, err
					}
					// The payout leg already moved money: commit the
					// distinguishable partial state, escalate the error.
					return &domain.SettlementOutcome{
							EscrowStatus: domain.EscrowPartiallyReleased,
							PayoutTxnRef: payoutRef,
						}, &domain.PartialReleaseError{
							OrderID:      orderID,
							SucceededLeg: "payout",
							FailedLeg:    "refund",
							Cause:        err,
						}
				}
				refundRef = ref
			}
			return &domain.SettlementOutcome{
				EscrowStatus: escrowStatus,
				PayoutTxnRef: payoutRef,
				RefundTxnRef: refundRef,
			}, nil
		},
	}
	if err := uc.settlementRepo.RunSettlement(ctx, op); err != nil {
		uc.logSettlementAttempt(orderID, "dispute_settle", "dispute", sellerPayout, buyerRefund, err)
		uc.recordSettlementError("dispute_settle", err)
		return err
	}

	uc.logSettlementAttempt(orderID, "dispute_settle", "dispute", sellerPayout, buyerRefund, nil)
	if uc.Metrics != nil {
		fee := domain.RoundMoney(entry.CapturedAmount - buyerRefund - sellerPayout)
		uc.Metrics.RecordSettlement("dispute_settle", string(toStatus), order.Currency, sellerPayout, buyerRefund, fee)
	}
	return nil
}
