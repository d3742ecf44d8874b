package models

import (
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
)

type EscrowEntryModel struct {
	OrderID           string              `gorm:"primaryKey;type:uuid"`
	Order             OrderModel          `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Status            domain.EscrowStatus `gorm:"index"`
	CapturedAmount    float64
	Currency          string
	TransactionRef    string
	PayoutTxnRef      string
	RefundTxnRef      string
	SellerAmount      float64
	BuyerRefundAmount float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ReleasedAt        *time.Time
}

func (EscrowEntryModel) TableName() string {
	return "escrow_entries"
}

// SettlementAuditModel records every release attempt and its outcome.
// Partial releases stay here for manual reconciliation.
type SettlementAuditModel struct {
	ID                uint   `gorm:"primaryKey"`
	OrderID           string `gorm:"type:uuid;index;not null"`
	Operation         string `gorm:"not null"`
	EscrowStatus      string `gorm:"not null"`
	SellerAmount      float64
	BuyerRefundAmount float64
	PayoutTxnRef      string
	RefundTxnRef      string
	Error             string
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

func (SettlementAuditModel) TableName() string {
	return "settlement_audits"
}
