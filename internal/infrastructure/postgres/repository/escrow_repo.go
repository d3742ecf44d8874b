package repository

import (
	"errors"

	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEscrowRepository struct {
	db *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{db: db}
}

func (r *DefaultEscrowRepository) GetEntryByOrderID(orderID string) (*domain.EscrowEntry, error) {
	var entryModel models.EscrowEntryModel
	if err := r.db.Model(&models.EscrowEntryModel{}).Where("order_id = ?", orderID).First(&entryModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEscrowNotFound
		}
		return nil, err
	}

	return mappers.ToDomainEscrowEntry(&entryModel), nil
}
