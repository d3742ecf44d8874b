package domain

import (
	"context"
	"time"
)

type EscrowStatus string

const (
	EscrowPending           EscrowStatus = "PENDING"
	EscrowHeld              EscrowStatus = "ESCROW_HELD"
	EscrowReleased          EscrowStatus = "RELEASED"
	EscrowRefunded          EscrowStatus = "REFUNDED"
	EscrowPartiallyReleased EscrowStatus = "PARTIALLY_RELEASED"
	EscrowFailed            EscrowStatus = "FAILED"
)

// EscrowEntry mirrors financial custody of funds for exactly one order.
// CapturedAmount never changes after capture; ReleasedAt is set at most once.
type EscrowEntry struct {
	OrderID           string
	Status            EscrowStatus
	CapturedAmount    float64
	Currency          string
	TransactionRef    string
	PayoutTxnRef      string
	RefundTxnRef      string
	SellerAmount      float64
	BuyerRefundAmount float64
	CreatedAt         time.Time
	ReleasedAt        *time.Time
}

type EscrowRepository interface {
	GetEntryByOrderID(orderID string) (*EscrowEntry, error)
}

// SettlementOutcome is what the gateway legs of a settlement produced.
// A partially-released outcome is committed, never masked as a full release.
type SettlementOutcome struct {
	EscrowStatus EscrowStatus
	PayoutTxnRef string
	RefundTxnRef string
}

type CaptureOp struct {
	OrderID        string
	Amount         float64
	GatewayTxnID   string
	Now            time.Time
	// Capture performs the gateway call. An error rolls the whole
	// transition back and the entry is committed as FAILED.
	Capture func(ctx context.Context) (txnRef string, err error)
}

type SettlementOp struct {
	OrderID           string
	Operation         string // "buyer_confirm", "auto_confirm", "dispute_settle"
	FromStatus        OrderStatus
	ToStatus          OrderStatus
	SellerAmount      float64
	BuyerRefundAmount float64
	Now               time.Time
	// Settle performs the payout/refund gateway legs against the held entry.
	// Returning an outcome together with an error records a partial release.
	Settle func(ctx context.Context, entry *EscrowEntry) (*SettlementOutcome, error)
}

// SettlementRepository executes the money-moving transitions: all row changes
// and the gateway callback commit as a single unit per external trigger.
type SettlementRepository interface {
	RunCapture(ctx context.Context, op *CaptureOp) error
	RunSettlement(ctx context.Context, op *SettlementOp) error
}
