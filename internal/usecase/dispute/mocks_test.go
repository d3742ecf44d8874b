package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
)

type memDisputeRepo struct {
	mu       sync.Mutex
	disputes map[string]*domain.Dispute
}

func newMemDisputeRepo(disputes ...*domain.Dispute) *memDisputeRepo {
	repo := &memDisputeRepo{disputes: make(map[string]*domain.Dispute)}
	for _, dispute := range disputes {
		repo.disputes[dispute.ID] = dispute
	}
	return repo
}

func (r *memDisputeRepo) CreateDispute(dispute *domain.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disputes[dispute.ID] = dispute
	return nil
}

func (r *memDisputeRepo) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute, ok := r.disputes[disputeID]
	if !ok {
		return nil, domain.ErrDisputeNotFound
	}
	copied := *dispute
	return &copied, nil
}

func (r *memDisputeRepo) GetDisputeByOrderID(orderID string) (*domain.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dispute := range r.disputes {
		if dispute.OrderID == orderID {
			copied := *dispute
			return &copied, nil
		}
	}
	return nil, domain.ErrDisputeNotFound
}

func (r *memDisputeRepo) SetVoting(disputeID string, jurorIDs []string, lowQuorum bool, deadline time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute, ok := r.disputes[disputeID]
	if !ok {
		return domain.ErrDisputeNotFound
	}
	if dispute.Status != domain.DisputeOpen {
		return domain.ErrStateConflict
	}
	dispute.Status = domain.DisputeVoting
	dispute.JurorIDs = jurorIDs
	dispute.LowQuorum = lowQuorum
	dispute.VotingDeadline = &deadline
	return nil
}

func (r *memDisputeRepo) SetResolved(disputeID string, buyerRefundRate float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute, ok := r.disputes[disputeID]
	if !ok {
		return domain.ErrDisputeNotFound
	}
	if dispute.Status != domain.DisputeVoting {
		return domain.ErrStateConflict
	}
	dispute.Status = domain.DisputeResolved
	dispute.BuyerRefundRate = &buyerRefundRate
	dispute.ResolvedAt = &at
	return nil
}

func (r *memDisputeRepo) FindExpiredVotings(now time.Time) ([]*domain.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired []*domain.Dispute
	for _, dispute := range r.disputes {
		if dispute.Status == domain.DisputeVoting &&
			dispute.VotingDeadline != nil && dispute.VotingDeadline.Before(now) {
			copied := *dispute
			expired = append(expired, &copied)
		}
	}
	return expired, nil
}

type voteKey struct {
	disputeID string
	jurorID   string
}

type memVoteRepo struct {
	mu    sync.Mutex
	votes map[voteKey]*domain.Vote
}

func newMemVoteRepo() *memVoteRepo {
	return &memVoteRepo{votes: make(map[voteKey]*domain.Vote)}
}

func (r *memVoteRepo) CreateVote(vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey{vote.DisputeID, vote.JurorID}
	if _, exists := r.votes[key]; exists {
		return domain.ErrDuplicateVote
	}
	r.votes[key] = vote
	return nil
}

func (r *memVoteRepo) CountVotes(disputeID string) (domain.VoteTally, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tally domain.VoteTally
	for key, vote := range r.votes {
		if key.disputeID != disputeID {
			continue
		}
		if vote.Choice == domain.VoteForBuyer {
			tally.ForBuyer++
		} else {
			tally.ForSeller++
		}
	}
	return tally, nil
}

func (r *memVoteRepo) GetVotes(disputeID string) ([]*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var votes []*domain.Vote
	for key, vote := range r.votes {
		if key.disputeID == disputeID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newMemOrderRepo(orders ...*domain.Order) *memOrderRepo {
	repo := &memOrderRepo{orders: make(map[string]*domain.Order)}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (r *memOrderRepo) CreateOrder(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) GetOrderByID(orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *memOrderRepo) UpdateOrderStatus(orderID string, from, to domain.OrderStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status != from {
		return domain.ErrStateConflict
	}
	order.Status = to
	return nil
}

func (r *memOrderRepo) SetTrackingInfo(orderID, trackingInfo string) error {
	return nil
}

func (r *memOrderRepo) FindAutoConfirmCandidates(deliveredBefore time.Time) ([]*domain.Order, error) {
	return nil, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]*domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *memUserRepo) GetUserByID(userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) FindEligibleJurors(excludeUserIDs []string, limit int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	excluded := make(map[string]bool, len(excludeUserIDs))
	for _, id := range excludeUserIDs {
		excluded[id] = true
	}
	var eligible []*domain.User
	for _, user := range r.users {
		if excluded[user.ID] || user.CompletedOrders < 1 || user.OpenDisputes > 0 {
			continue
		}
		copied := *user
		eligible = append(eligible, &copied)
		if len(eligible) == limit {
			break
		}
	}
	return eligible, nil
}

func (r *memUserRepo) IncrementCompletedOrders(userIDs ...string) error {
	return nil
}

func (r *memUserRepo) IncrementOpenDisputes(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.OpenDisputes++
	}
	return nil
}

func (r *memUserRepo) DecrementOpenDisputes(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok && user.OpenDisputes > 0 {
		user.OpenDisputes--
	}
	return nil
}

// mockSettler records the verdict handed to the order state machine.
type mockSettler struct {
	mu     sync.Mutex
	calls  []settleCall
	retErr error
}

type settleCall struct {
	orderID string
	rate    float64
}

func (s *mockSettler) SettleFromDispute(ctx context.Context, orderID string, buyerRefundRate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retErr != nil {
		return s.retErr
	}
	s.calls = append(s.calls, settleCall{orderID: orderID, rate: buyerRefundRate})
	return nil
}

type mockPublisher struct {
	mu            sync.Mutex
	disputeEvents []domain.DisputeEvent
}

func (p *mockPublisher) PublishOrder(event domain.OrderEvent) error {
	return nil
}

func (p *mockPublisher) PublishDispute(event domain.DisputeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disputeEvents = append(p.disputeEvents, event)
	return nil
}
