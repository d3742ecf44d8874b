package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/logger"
)

// Resolve computes the buyer refund rate from the vote tally and settles
// the order accordingly. Legal once the deadline has passed, or earlier
// when an administrator forces it.
//
// Tie-break policy: with zero votes, or a lowQuorum pool that gathered
// fewer votes than the configured threshold, the rate defaults to an even
// 0.5 split rather than leaving the order stuck.
func (disputeUc *DefaultDisputeUsecase) Resolve(ctx context.Context, disputeID string, force bool) error {
	dispute, err := disputeUc.disputeRepo.GetDisputeByID(disputeID)
	if err != nil {
		return err
	}
	if dispute.Status != domain.DisputeVoting {
		return &domain.InvalidStateError{
			Entity:     "dispute",
			ID:         disputeID,
			Current:    string(dispute.Status),
			Transition: "resolve",
		}
	}
	if !force && (dispute.VotingDeadline == nil || time.Now().Before(*dispute.VotingDeadline)) {
		return domain.ErrVotingNotExpired
	}

	tally, err := disputeUc.voteRepo.CountVotes(disputeID)
	if err != nil {
		return err
	}

	buyerRefundRate := 0.5
	tieBreak := true
	if tally.Total() > 0 && !(dispute.LowQuorum && tally.Total() < disputeUc.lowQuorumVoteThreshold) {
		buyerRefundRate = float64(tally.ForBuyer) / float64(tally.Total())
		tieBreak = false
	}

	now := time.Now()
	if err := disputeUc.disputeRepo.SetResolved(disputeID, buyerRefundRate, now); err != nil {
		return err
	}

	if err := disputeUc.userRepo.DecrementOpenDisputes(dispute.InitiatorID); err != nil {
		slog.Error("failed to decrement open disputes", "user_id", dispute.InitiatorID, "error", err.Error())
	}

	if disputeUc.eventLogger != nil {
		if err := disputeUc.eventLogger.LogDisputeResolved(ctx, logger.DisputeResolvedEvent{
			DisputeID:       disputeID,
			OrderID:         dispute.OrderID,
			BuyerRefundRate: buyerRefundRate,
			VotesForBuyer:   tally.ForBuyer,
			VotesForSeller:  tally.ForSeller,
			TieBreakUsed:    tieBreak,
			Timestamp:       now,
		}); err != nil {
			slog.Error("failed to log dispute resolution", "dispute_id", disputeID, "error", err.Error())
		}
	}
	if disputeUc.Metrics != nil {
		kind := "vote"
		if tieBreak {
			kind = "tie_break"
		}
		disputeUc.Metrics.RecordDisputeResolved(kind)
	}

	order, orderErr := disputeUc.orderRepo.GetOrderByID(dispute.OrderID)

	go func(event domain.DisputeEvent) {
		if err := disputeUc.publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish dispute event", "dispute_id", disputeID, "error", err.Error())
		}
	}(resolvedEvent(dispute, order, buyerRefundRate))

	if orderErr != nil {
		return orderErr
	}

	// Settlement failures surface to the caller; the escrow one-shot
	// guard keeps a retried resolution from paying twice.
	return disputeUc.settler.SettleFromDispute(ctx, dispute.OrderID, buyerRefundRate)
}

func resolvedEvent(dispute *domain.Dispute, order *domain.Order, buyerRefundRate float64) domain.DisputeEvent {
	event := domain.DisputeEvent{
		Kind:            domain.EventDisputeResolved,
		DisputeID:       dispute.ID,
		OrderID:         dispute.OrderID,
		InitiatorID:     dispute.InitiatorID,
		BuyerRefundRate: &buyerRefundRate,
	}
	if order != nil {
		event.BuyerID = order.BuyerID
		event.SellerID = order.SellerID
	}
	return event
}
