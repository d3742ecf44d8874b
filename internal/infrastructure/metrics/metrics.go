package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics covers the settlement engine and its reconciliation jobs.
type SettlementMetrics struct {
	OrdersSettledTotal       prometheus.CounterVec
	OrdersSettledAmountTotal prometheus.CounterVec
	PlatformFeeTotal         prometheus.CounterVec

	DisputesOpenedTotal   prometheus.CounterVec
	DisputesResolvedTotal prometheus.CounterVec
	VotesCastTotal        prometheus.CounterVec

	ReconcilePassDuration prometheus.HistogramVec
	ReconcileItemsTotal   prometheus.CounterVec

	GatewayErrorsTotal       prometheus.CounterVec
	PartialReleasesTotal     prometheus.CounterVec
	SettlementConflictsTotal prometheus.CounterVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		OrdersSettledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_settled_total",
				Help: "Settled orders by settlement path and terminal status",
			},
			[]string{"path", "status"},
		),
		OrdersSettledAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_settled_amount_total",
				Help: "Total settled amount by currency and leg",
			},
			[]string{"currency", "leg"},
		),
		PlatformFeeTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "platform_fee_total",
				Help: "Total platform commission withheld",
			},
			[]string{"currency"},
		),
		DisputesOpenedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_opened_total",
				Help: "Disputes opened by initiator side",
			},
			[]string{"initiator"},
		),
		DisputesResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_resolved_total",
				Help: "Disputes resolved by resolution kind",
			},
			[]string{"kind"},
		),
		VotesCastTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "votes_cast_total",
				Help: "Juror votes by choice",
			},
			[]string{"choice"},
		),
		ReconcilePassDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reconcile_pass_duration_seconds",
				Help:    "Duration of one reconciliation pass",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"job"},
		),
		ReconcileItemsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_items_total",
				Help: "Reconciliation items by job and outcome",
			},
			[]string{"job", "outcome"},
		),
		GatewayErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_errors_total",
				Help: "Payment gateway call failures by operation and kind",
			},
			[]string{"op", "kind"},
		),
		PartialReleasesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partial_releases_total",
				Help: "Split settlements where only one leg succeeded",
			},
			[]string{"failed_leg"},
		),
		SettlementConflictsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_conflicts_total",
				Help: "Duplicate release attempts rejected by the one-shot guard",
			},
			[]string{"path"},
		),
	}
}

func (m *SettlementMetrics) RecordSettlement(path, status, currency string, sellerAmount, buyerRefund, fee float64) {
	m.OrdersSettledTotal.WithLabelValues(path, status).Inc()
	if sellerAmount > 0 {
		m.OrdersSettledAmountTotal.WithLabelValues(currency, "seller_payout").Add(sellerAmount)
	}
	if buyerRefund > 0 {
		m.OrdersSettledAmountTotal.WithLabelValues(currency, "buyer_refund").Add(buyerRefund)
	}
	if fee > 0 {
		m.PlatformFeeTotal.WithLabelValues(currency).Add(fee)
	}
}

func (m *SettlementMetrics) RecordDisputeOpened(initiator string) {
	m.DisputesOpenedTotal.WithLabelValues(initiator).Inc()
}

func (m *SettlementMetrics) RecordDisputeResolved(kind string) {
	m.DisputesResolvedTotal.WithLabelValues(kind).Inc()
}

func (m *SettlementMetrics) RecordVote(choice string) {
	m.VotesCastTotal.WithLabelValues(choice).Inc()
}

func (m *SettlementMetrics) RecordReconcilePass(job string, seconds float64, succeeded, failed int) {
	m.ReconcilePassDuration.WithLabelValues(job).Observe(seconds)
	m.ReconcileItemsTotal.WithLabelValues(job, "succeeded").Add(float64(succeeded))
	m.ReconcileItemsTotal.WithLabelValues(job, "failed").Add(float64(failed))
}

func (m *SettlementMetrics) RecordGatewayError(op, kind string) {
	m.GatewayErrorsTotal.WithLabelValues(op, kind).Inc()
}

func (m *SettlementMetrics) RecordPartialRelease(failedLeg string) {
	m.PartialReleasesTotal.WithLabelValues(failedLeg).Inc()
}

func (m *SettlementMetrics) RecordSettlementConflict(path string) {
	m.SettlementConflictsTotal.WithLabelValues(path).Inc()
}
