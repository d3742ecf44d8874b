package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
)

// In-memory doubles mirroring the conditional-update semantics of the
// postgres repositories, so the one-shot settlement guard is exercised
// the same way it behaves against real rows.

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
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.TrackingInfo = trackingInfo
	return nil
}

func (r *memOrderRepo) FindAutoConfirmCandidates(deliveredBefore time.Time) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var candidates []*domain.Order
	for _, order := range r.orders {
		if order.Status == domain.StatusDelivered &&
			order.DeliveredAt != nil && order.DeliveredAt.Before(deliveredBefore) {
			copied := *order
			candidates = append(candidates, &copied)
		}
	}
	return candidates, nil
}

type memEscrowRepo struct {
	mu      sync.Mutex
	entries map[string]*domain.EscrowEntry
}

func newMemEscrowRepo(entries ...*domain.EscrowEntry) *memEscrowRepo {
	repo := &memEscrowRepo{entries: make(map[string]*domain.EscrowEntry)}
	for _, entry := range entries {
		repo.entries[entry.OrderID] = entry
	}
	return repo
}

func (r *memEscrowRepo) GetEntryByOrderID(orderID string) (*domain.EscrowEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[orderID]
	if !ok {
		return nil, domain.ErrEscrowNotFound
	}
	copied := *entry
	return &copied, nil
}

// memSettlementRepo replays the transactional settlement semantics against
// the in-memory maps: escrow one-shot guard first, order status CAS second.
type memSettlementRepo struct {
	orders  *memOrderRepo
	escrows *memEscrowRepo
}

func (r *memSettlementRepo) RunCapture(ctx context.Context, op *domain.CaptureOp) error {
	order, err := r.orders.GetOrderByID(op.OrderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusPendingPayment {
		return &domain.InvalidStateError{
			Entity:     "order",
			ID:         op.OrderID,
			Current:    string(order.Status),
			Transition: "mark_paid",
		}
	}

	r.escrows.mu.Lock()
	existing, hasEntry := r.escrows.entries[op.OrderID]
	r.escrows.mu.Unlock()
	if hasEntry && existing.Status != domain.EscrowFailed {
		return &domain.AlreadySettledError{OrderID: op.OrderID, Status: existing.Status}
	}

	txnRef, err := op.Capture(ctx)
	if err != nil {
		// A timeout rolls back without a trace; only a definitive
		// rejection records FAILED, replacing any earlier FAILED row.
		var timeout *domain.GatewayTimeoutError
		if errors.As(err, &timeout) {
			return err
		}
		r.escrows.mu.Lock()
		r.escrows.entries[op.OrderID] = &domain.EscrowEntry{
			OrderID:        op.OrderID,
			Status:         domain.EscrowFailed,
			CapturedAmount: op.Amount,
			Currency:       order.Currency,
			TransactionRef: op.GatewayTxnID,
			CreatedAt:      op.Now,
		}
		r.escrows.mu.Unlock()
		return err
	}

	r.escrows.mu.Lock()
	r.escrows.entries[op.OrderID] = &domain.EscrowEntry{
		OrderID:        op.OrderID,
		Status:         domain.EscrowHeld,
		CapturedAmount: op.Amount,
		Currency:       order.Currency,
		TransactionRef: txnRef,
		CreatedAt:      op.Now,
	}
	r.escrows.mu.Unlock()

	return r.orders.UpdateOrderStatus(op.OrderID, domain.StatusPendingPayment, domain.StatusPaid, op.Now)
}

func (r *memSettlementRepo) RunSettlement(ctx context.Context, op *domain.SettlementOp) error {
	r.escrows.mu.Lock()
	entry, ok := r.escrows.entries[op.OrderID]
	if !ok {
		r.escrows.mu.Unlock()
		return domain.ErrEscrowNotFound
	}
	if entry.Status != domain.EscrowHeld {
		status := entry.Status
		r.escrows.mu.Unlock()
		return &domain.AlreadySettledError{OrderID: op.OrderID, Status: status}
	}
	held := *entry
	r.escrows.mu.Unlock()

	order, err := r.orders.GetOrderByID(op.OrderID)
	if err != nil {
		return err
	}
	if order.Status != op.FromStatus {
		return &domain.InvalidStateError{
			Entity:     "order",
			ID:         op.OrderID,
			Current:    string(order.Status),
			Transition: op.Operation,
		}
	}

	outcome, settleErr := op.Settle(ctx, &held)
	if settleErr != nil && outcome == nil {
		return settleErr
	}

	r.escrows.mu.Lock()
	entry.Status = outcome.EscrowStatus
	entry.SellerAmount = op.SellerAmount
	entry.BuyerRefundAmount = op.BuyerRefundAmount
	entry.PayoutTxnRef = outcome.PayoutTxnRef
	entry.RefundTxnRef = outcome.RefundTxnRef
	releasedAt := op.Now
	entry.ReleasedAt = &releasedAt
	r.escrows.mu.Unlock()

	if settleErr != nil {
		return settleErr
	}
	return r.orders.UpdateOrderStatus(op.OrderID, op.FromStatus, op.ToStatus, op.Now)
}

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
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range userIDs {
		if user, ok := r.users[id]; ok {
			user.CompletedOrders++
		}
	}
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

// mockGateway records the money legs and can fail any of them.
type mockGateway struct {
	mu         sync.Mutex
	captures   int
	payouts    []float64
	refunds    []float64
	captureErr error
	payoutErr  error
	refundErr  error
}

func (g *mockGateway) Capture(ctx context.Context, orderID string, amount float64, currency string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.captureErr != nil {
		return "", g.captureErr
	}
	g.captures++
	return "cap-1", nil
}

func (g *mockGateway) Payout(ctx context.Context, orderID, sellerID string, amount float64, currency string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.payoutErr != nil {
		return "", g.payoutErr
	}
	g.payouts = append(g.payouts, amount)
	return "pay-1", nil
}

func (g *mockGateway) Refund(ctx context.Context, orderID, buyerID string, amount float64, currency string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return "", g.refundErr
	}
	g.refunds = append(g.refunds, amount)
	return "ref-1", nil
}

type mockPublisher struct {
	mu            sync.Mutex
	orderEvents   []domain.OrderEvent
	disputeEvents []domain.DisputeEvent
}

func (p *mockPublisher) PublishOrder(event domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orderEvents = append(p.orderEvents, event)
	return nil
}

func (p *mockPublisher) PublishDispute(event domain.DisputeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disputeEvents = append(p.disputeEvents, event)
	return nil
}
