package usecase

import (
	"log/slog"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
)

// StartVoting selects the jury and opens the 72h voting window.
// Re-invocation while already VOTING is a no-op.
func (disputeUc *DefaultDisputeUsecase) StartVoting(disputeID string) error {
	dispute, err := disputeUc.disputeRepo.GetDisputeByID(disputeID)
	if err != nil {
		return err
	}
	if dispute.Status == domain.DisputeVoting {
		return nil
	}
	if dispute.Status != domain.DisputeOpen {
		return &domain.InvalidStateError{
			Entity:     "dispute",
			ID:         disputeID,
			Current:    string(dispute.Status),
			Transition: "start_voting",
		}
	}

	order, err := disputeUc.orderRepo.GetOrderByID(dispute.OrderID)
	if err != nil {
		return err
	}
	excluded := []string{order.BuyerID, order.SellerID}
	jurorIDs, lowQuorum, err := disputeUc.selector.SelectJury(disputeID, excluded, disputeUc.quorum)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(disputeUc.votingTTL)
	if err := disputeUc.disputeRepo.SetVoting(disputeID, jurorIDs, lowQuorum, deadline); err != nil {
		return err
	}

	go func(event domain.DisputeEvent) {
		if err := disputeUc.publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish dispute event", "dispute_id", disputeID, "error", err.Error())
		}
	}(domain.DisputeEvent{
		Kind:      domain.EventVotingStarted,
		DisputeID: disputeID,
		OrderID:   dispute.OrderID,
		BuyerID:   order.BuyerID,
		SellerID:  order.SellerID,
		JurorIDs:  jurorIDs,
	})

	return nil
}

// CastVote records one juror's verdict. A duplicate attempt is an error,
// not an update, to preserve auditability.
func (disputeUc *DefaultDisputeUsecase) CastVote(disputeID, jurorID string, choice domain.VoteChoice, comment string) error {
	if choice != domain.VoteForBuyer && choice != domain.VoteForSeller {
		return domain.ErrInvalidVoteChoice
	}

	dispute, err := disputeUc.disputeRepo.GetDisputeByID(disputeID)
	if err != nil {
		return err
	}
	if dispute.Status != domain.DisputeVoting {
		return domain.ErrVotingNotStarted
	}
	if dispute.VotingDeadline == nil || !time.Now().Before(*dispute.VotingDeadline) {
		return domain.ErrVotingClosed
	}

	order, err := disputeUc.orderRepo.GetOrderByID(dispute.OrderID)
	if err != nil {
		return err
	}
	if jurorID == order.BuyerID || jurorID == order.SellerID {
		return domain.ErrPartyCannotVote
	}
	if !dispute.IsJuror(jurorID) {
		return domain.ErrNotJuror
	}

	if err := disputeUc.voteRepo.CreateVote(&domain.Vote{
		DisputeID: disputeID,
		JurorID:   jurorID,
		Choice:    choice,
		Comment:   comment,
		CastAt:    time.Now(),
	}); err != nil {
		return err
	}

	if disputeUc.Metrics != nil {
		disputeUc.Metrics.RecordVote(string(choice))
	}
	return nil
}

// Tally is pure and read-only; it never mutates the dispute.
func (disputeUc *DefaultDisputeUsecase) Tally(disputeID string) (domain.VoteTally, error) {
	return disputeUc.voteRepo.CountVotes(disputeID)
}
