package models

import (
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
)

type DisputeModel struct {
	ID              string     `gorm:"primaryKey"`
	OrderID         string     `gorm:"type:uuid;uniqueIndex"`
	Order           OrderModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	InitiatorID     string     `gorm:"type:uuid"`
	Reason          string
	Status          domain.DisputeStatus `gorm:"index:idx_dispute_status_deadline"`
	JurorIDs        string               `gorm:"column:juror_ids;type:jsonb;default:'[]'"`
	LowQuorum       bool
	VotingDeadline  *time.Time `gorm:"index:idx_dispute_status_deadline"`
	BuyerRefundRate *float64
	ResolvedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DisputeModel) TableName() string {
	return "disputes"
}

type VoteModel struct {
	ID        uint         `gorm:"primaryKey"`
	DisputeID string       `gorm:"uniqueIndex:idx_dispute_juror;not null"`
	Dispute   DisputeModel `gorm:"foreignKey:DisputeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	JurorID   string       `gorm:"type:uuid;uniqueIndex:idx_dispute_juror;not null"`
	Choice    string       `gorm:"not null"`
	Comment   string
	CastAt    time.Time `gorm:"autoCreateTime"`
}

func (VoteModel) TableName() string {
	return "votes"
}
