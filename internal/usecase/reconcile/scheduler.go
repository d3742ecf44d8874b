package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/metrics"
)

// Report is the structured outcome of one reconciliation pass. Items that
// lost a race to another settlement path count as neither succeeded nor
// failed; they are logged as benign.
type Report struct {
	Processed int         `json:"processed"`
	Succeeded int         `json:"succeeded"`
	Failed    []ItemError `json:"failed"`
}

type ItemError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type AutoConfirmer interface {
	ConfirmBySystem(ctx context.Context, orderID string) error
}

type VotingResolver interface {
	Resolve(ctx context.Context, disputeID string, force bool) error
}

// Scheduler runs the two idempotent batch jobs. Each pass iterates a
// snapshot of candidates fetched at pass start; rows appearing mid-pass
// wait for the next pass. A failure in one item never aborts the rest.
type Scheduler struct {
	orderRepo   domain.OrderRepository
	disputeRepo domain.DisputeRepository
	confirmer   AutoConfirmer
	resolver    VotingResolver
	graceAfter  time.Duration
	Metrics     *metrics.SettlementMetrics
}

func NewScheduler(
	orderRepo domain.OrderRepository,
	disputeRepo domain.DisputeRepository,
	confirmer AutoConfirmer,
	resolver VotingResolver,
	graceAfter time.Duration,
) *Scheduler {
	return &Scheduler{
		orderRepo:   orderRepo,
		disputeRepo: disputeRepo,
		confirmer:   confirmer,
		resolver:    resolver,
		graceAfter:  graceAfter,
	}
}

// RunAutoConfirm settles delivered orders whose grace period has expired
// with caller = system.
func (s *Scheduler) RunAutoConfirm(ctx context.Context) (*Report, error) {
	started := time.Now()
	orders, err := s.orderRepo.FindAutoConfirmCandidates(time.Now().Add(-s.graceAfter))
	if err != nil {
		return nil, err
	}

	report := &Report{Processed: len(orders), Failed: []ItemError{}}
	for _, order := range orders {
		if err := s.confirmer.ConfirmBySystem(ctx, order.ID); err != nil {
			if benign(err) {
				slog.Info("auto-confirm lost settlement race", "order_id", order.ID, "reason", err.Error())
				continue
			}
			slog.Error("auto-confirm failed", "order_id", order.ID, "error", err.Error())
			report.Failed = append(report.Failed, ItemError{ID: order.ID, Error: err.Error()})
			continue
		}
		report.Succeeded++
	}

	s.recordPass("auto_confirm", started, report)
	return report, nil
}

// RunExpireVotings resolves disputes whose voting deadline has passed.
func (s *Scheduler) RunExpireVotings(ctx context.Context) (*Report, error) {
	started := time.Now()
	disputes, err := s.disputeRepo.FindExpiredVotings(time.Now())
	if err != nil {
		return nil, err
	}

	report := &Report{Processed: len(disputes), Failed: []ItemError{}}
	for _, dispute := range disputes {
		if err := s.resolver.Resolve(ctx, dispute.ID, false); err != nil {
			if benign(err) {
				slog.Info("expire-votings lost resolution race", "dispute_id", dispute.ID, "reason", err.Error())
				continue
			}
			slog.Error("expire-votings failed", "dispute_id", dispute.ID, "error", err.Error())
			report.Failed = append(report.Failed, ItemError{ID: dispute.ID, Error: err.Error()})
			continue
		}
		report.Succeeded++
	}

	s.recordPass("expire_votings", started, report)
	return report, nil
}

// benign: another path already settled or transitioned the row between
// snapshot and processing. Logged, never alarmed.
func benign(err error) bool {
	var settled *domain.AlreadySettledError
	var invalid *domain.InvalidStateError
	return errors.As(err, &settled) ||
		errors.As(err, &invalid) ||
		errors.Is(err, domain.ErrStateConflict)
}

func (s *Scheduler) recordPass(job string, started time.Time, report *Report) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.RecordReconcilePass(job, time.Since(started).Seconds(), report.Succeeded, len(report.Failed))
}
