package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type SettlementAttemptEvent struct {
	ID           uint `gorm:"primaryKey"`
	OrderID      string
	Operation    string
	CallerID     string
	SellerAmount float64
	BuyerRefund  float64
	Succeeded    bool
	Error        string
	Timestamp    time.Time
}

type DisputeResolvedEvent struct {
	ID              uint `gorm:"primaryKey"`
	DisputeID       string
	OrderID         string
	BuyerRefundRate float64
	VotesForBuyer   int64
	VotesForSeller  int64
	TieBreakUsed    bool
	Timestamp       time.Time
}

type SettlementEventLogger interface {
	LogSettlementAttempt(ctx context.Context, event SettlementAttemptEvent) error
	LogDisputeResolved(ctx context.Context, event DisputeResolvedEvent) error
}

// PGSettlementEventLogger keeps a queryable history of settlement attempts
// and verdicts next to the operational tables.
type PGSettlementEventLogger struct {
	db *gorm.DB
}

func NewPGSettlementEventLogger(db *gorm.DB) *PGSettlementEventLogger {
	db.AutoMigrate(&SettlementAttemptEvent{}, &DisputeResolvedEvent{})
	return &PGSettlementEventLogger{db: db}
}

func (l *PGSettlementEventLogger) LogSettlementAttempt(ctx context.Context, event SettlementAttemptEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGSettlementEventLogger) LogDisputeResolved(ctx context.Context, event DisputeResolvedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
