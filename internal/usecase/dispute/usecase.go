package usecase

import (
	"context"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/logger"
	"github.com/tradeguard/settlement-service/internal/infrastructure/metrics"
	"github.com/tradeguard/settlement-service/internal/usecase/jury"
)

type DisputeUsecase interface {
	StartVoting(disputeID string) error
	CastVote(disputeID, jurorID string, choice domain.VoteChoice, comment string) error
	Tally(disputeID string) (domain.VoteTally, error)
	Votes(disputeID string) ([]*domain.Vote, error)
	Resolve(ctx context.Context, disputeID string, force bool) error
	Resettle(ctx context.Context, disputeID string) error
	GetDisputeByID(disputeID string) (*domain.Dispute, error)
	GetDisputeByOrderID(orderID string) (*domain.Dispute, error)
}

// DisputeSettler is the one transition call the dispute machine makes into
// the order machine; the dispute never mutates order rows itself.
type DisputeSettler interface {
	SettleFromDispute(ctx context.Context, orderID string, buyerRefundRate float64) error
}

type DefaultDisputeUsecase struct {
	disputeRepo domain.DisputeRepository
	voteRepo    domain.VoteRepository
	orderRepo   domain.OrderRepository
	userRepo    domain.UserRepository
	selector    *jury.Selector
	settler     DisputeSettler
	publisher   domain.EventPublisher
	eventLogger logger.SettlementEventLogger
	Metrics     *metrics.SettlementMetrics

	votingTTL              time.Duration
	quorum                 int
	lowQuorumVoteThreshold int64
}

func NewDefaultDisputeUsecase(
	disputeRepo domain.DisputeRepository,
	voteRepo domain.VoteRepository,
	orderRepo domain.OrderRepository,
	userRepo domain.UserRepository,
	selector *jury.Selector,
	settler DisputeSettler,
	publisher domain.EventPublisher,
	eventLogger logger.SettlementEventLogger,
	votingTTL time.Duration,
	quorum int,
	lowQuorumVoteThreshold int64,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		disputeRepo:            disputeRepo,
		voteRepo:               voteRepo,
		orderRepo:              orderRepo,
		userRepo:               userRepo,
		selector:               selector,
		settler:                settler,
		publisher:              publisher,
		eventLogger:            eventLogger,
		votingTTL:              votingTTL,
		quorum:                 quorum,
		lowQuorumVoteThreshold: lowQuorumVoteThreshold,
	}
}

func (disputeUc *DefaultDisputeUsecase) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	return disputeUc.disputeRepo.GetDisputeByID(disputeID)
}

func (disputeUc *DefaultDisputeUsecase) GetDisputeByOrderID(orderID string) (*domain.Dispute, error) {
	return disputeUc.disputeRepo.GetDisputeByOrderID(orderID)
}

// Votes returns the individual ballots in cast order, for the audit view.
func (disputeUc *DefaultDisputeUsecase) Votes(disputeID string) ([]*domain.Vote, error) {
	if _, err := disputeUc.disputeRepo.GetDisputeByID(disputeID); err != nil {
		return nil, err
	}
	return disputeUc.voteRepo.GetVotes(disputeID)
}
