package models

import "time"

type UserModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	DisplayName      string
	BusinessVerified bool  `gorm:"default:false"`
	CompletedOrders  int64 `gorm:"default:0;index:idx_juror_eligibility"`
	OpenDisputes     int64 `gorm:"default:0;index:idx_juror_eligibility"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (UserModel) TableName() string {
	return "users"
}
