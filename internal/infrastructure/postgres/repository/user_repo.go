package repository

import (
	"errors"

	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewDefaultUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (r *DefaultUserRepository) GetUserByID(userID string) (*domain.User, error) {
	var userModel models.UserModel
	if err := r.db.Model(&models.UserModel{}).Where("id = ?", userID).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return mappers.ToDomainUser(&userModel), nil
}

func (r *DefaultUserRepository) FindEligibleJurors(excludeUserIDs []string, limit int) ([]*domain.User, error) {
	query := r.db.Model(&models.UserModel{}).
		Where("completed_orders >= ?", 1).
		Where("open_disputes = ?", 0)
	if len(excludeUserIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeUserIDs)
	}

	var userModels []models.UserModel
	if err := query.Order("RANDOM()").Limit(limit).Find(&userModels).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, len(userModels))
	for i, userModel := range userModels {
		users[i] = mappers.ToDomainUser(&userModel)
	}
	return users, nil
}

func (r *DefaultUserRepository) IncrementCompletedOrders(userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.UserModel{}).
		Where("id IN ?", userIDs).
		UpdateColumn("completed_orders", gorm.Expr("completed_orders + 1")).Error
}

func (r *DefaultUserRepository) IncrementOpenDisputes(userID string) error {
	return r.db.Model(&models.UserModel{}).
		Where("id = ?", userID).
		UpdateColumn("open_disputes", gorm.Expr("open_disputes + 1")).Error
}

func (r *DefaultUserRepository) DecrementOpenDisputes(userID string) error {
	return r.db.Model(&models.UserModel{}).
		Where("id = ? AND open_disputes > 0", userID).
		UpdateColumn("open_disputes", gorm.Expr("open_disputes - 1")).Error
}
