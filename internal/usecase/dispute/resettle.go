package usecase

import (
	"context"

	"github.com/tradeguard/settlement-service/internal/domain"
)

// Resettle re-runs settlement for a dispute that resolved but whose
// payout or refund never went through, e.g. when the gateway was down
// at resolution time. The escrow one-shot guard makes the call safe to
// repeat: once the funds have moved it returns AlreadySettledError.
func (disputeUc *DefaultDisputeUsecase) Resettle(ctx context.Context, disputeID string) error {
	dispute, err := disputeUc.disputeRepo.GetDisputeByID(disputeID)
	if err != nil {
		return err
	}
	if dispute.Status != domain.DisputeResolved || dispute.BuyerRefundRate == nil {
		return &domain.InvalidStateError{
			Entity:     "dispute",
			ID:         disputeID,
			Current:    string(dispute.Status),
			Transition: "resettle",
		}
	}
	return disputeUc.settler.SettleFromDispute(ctx, dispute.OrderID, *dispute.BuyerRefundRate)
}
