package models

import (
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
)

type OrderModel struct {
	ID           string             `gorm:"primaryKey;type:uuid"`
	BuyerID      string             `gorm:"type:uuid;index"`
	SellerID     string             `gorm:"type:uuid;index"`
	ListingID    string             `gorm:"type:uuid"`
	Amount       float64            `gorm:"not null"`
	Currency     string             `gorm:"not null"`
	Status       domain.OrderStatus `gorm:"index:idx_status_delivered"`
	TrackingInfo string
	CreatedAt    time.Time `gorm:"index:idx_created_at"`
	UpdatedAt    time.Time
	PaidAt       *time.Time
	ShippedAt    *time.Time
	DeliveredAt  *time.Time `gorm:"index:idx_status_delivered"`
	ConfirmedAt  *time.Time
	ArchivedAt   *time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}
