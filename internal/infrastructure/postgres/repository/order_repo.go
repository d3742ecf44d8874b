package repository

import (
	"errors"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	db *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{db: db}
}

func (r *DefaultOrderRepository) CreateOrder(order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.db.Create(orderModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(orderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	if err := r.db.Model(&models.OrderModel{}).Where("id = ?", orderID).First(&orderModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&orderModel), nil
}

// UpdateOrderStatus performs a compare-and-swap on the status column and
// stamps the lifecycle timestamp that matches the target state. Zero rows
// affected means another writer won the race.
func (r *DefaultOrderRepository) UpdateOrderStatus(orderID string, from, to domain.OrderStatus, at time.Time) error {
	updates := map[string]interface{}{"status": to, "updated_at": at}
	switch to {
	case domain.StatusPaid:
		updates["paid_at"] = at
	case domain.StatusShipping:
		updates["shipped_at"] = at
	case domain.StatusDelivered:
		updates["delivered_at"] = at
	case domain.StatusConfirmed:
		updates["confirmed_at"] = at
	}
	if to.Terminal() {
		updates["archived_at"] = at
	}

	result := r.db.Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStateConflict
	}
	return nil
}

func (r *DefaultOrderRepository) SetTrackingInfo(orderID, trackingInfo string) error {
	return r.db.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Update("tracking_info", trackingInfo).Error
}

func (r *DefaultOrderRepository) FindAutoConfirmCandidates(deliveredBefore time.Time) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.Model(&models.OrderModel{}).
		Where("status = ?", string(domain.StatusDelivered)).
		Where("delivered_at <= ?", deliveredBefore).
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}

	return orders, nil
}
