package mappers

import (
	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:           order.ID,
		BuyerID:      order.BuyerID,
		SellerID:     order.SellerID,
		ListingID:    order.ListingID,
		Amount:       order.Amount,
		Currency:     order.Currency,
		Status:       order.Status,
		TrackingInfo: order.TrackingInfo,
		CreatedAt:    order.CreatedAt,
		PaidAt:       order.PaidAt,
		ShippedAt:    order.ShippedAt,
		DeliveredAt:  order.DeliveredAt,
		ConfirmedAt:  order.ConfirmedAt,
		ArchivedAt:   order.ArchivedAt,
	}
}

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:           model.ID,
		BuyerID:      model.BuyerID,
		SellerID:     model.SellerID,
		ListingID:    model.ListingID,
		Amount:       model.Amount,
		Currency:     model.Currency,
		Status:       model.Status,
		TrackingInfo: model.TrackingInfo,
		CreatedAt:    model.CreatedAt,
		PaidAt:       model.PaidAt,
		ShippedAt:    model.ShippedAt,
		DeliveredAt:  model.DeliveredAt,
		ConfirmedAt:  model.ConfirmedAt,
		ArchivedAt:   model.ArchivedAt,
	}
}
