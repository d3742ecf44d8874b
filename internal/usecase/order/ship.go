package usecase

import (
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
)

// MarkShipped is a seller-only transition from PAID.
func (uc *DefaultOrderUsecase) MarkShipped(orderID, callerID, trackingInfo string) error {
	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if order.SellerID != callerID {
		return domain.ErrNotSeller
	}
	if order.Status != domain.StatusPaid {
		return &domain.InvalidStateError{
			Entity:     "order",
			ID:         orderID,
			Current:    string(order.Status),
			Transition: "mark_shipped",
		}
	}

	if err := uc.orderRepo.UpdateOrderStatus(orderID, domain.StatusPaid, domain.StatusShipping, time.Now()); err != nil {
		return err
	}
	if trackingInfo != "" {
		if err := uc.orderRepo.SetTrackingInfo(orderID, trackingInfo); err != nil {
			return err
		}
	}

	uc.publishOrderEvent(domain.EventOrderShipped, order)
	return nil
}

// MarkDelivered may come from a carrier webhook or a buyer action.
func (uc *DefaultOrderUsecase) MarkDelivered(orderID string) error {
	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusShipping {
		return &domain.InvalidStateError{
			Entity:     "order",
			ID:         orderID,
			Current:    string(order.Status),
			Transition: "mark_delivered",
		}
	}

	if err := uc.orderRepo.UpdateOrderStatus(orderID, domain.StatusShipping, domain.StatusDelivered, time.Now()); err != nil {
		return err
	}

	uc.publishOrderEvent(domain.EventOrderDelivered, order)
	return nil
}
