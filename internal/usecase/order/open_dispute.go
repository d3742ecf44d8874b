package usecase

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/tradeguard/settlement-service/internal/domain"
)

// OpenDispute freezes the order at DISPUTED and creates the dispute in
// OPEN. At most one dispute ever exists per order.
func (uc *DefaultOrderUsecase) OpenDispute(orderID, initiatorID, reason string) (*domain.Dispute, error) {
	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if initiatorID != order.BuyerID && initiatorID != order.SellerID {
		return nil, domain.ErrNotParty
	}
	if order.Status != domain.StatusShipping && order.Status != domain.StatusDelivered {
		return nil, &domain.InvalidStateError{
			Entity:     "order",
			ID:         orderID,
			Current:    string(order.Status),
			Transition: "open_dispute",
		}
	}

	if existing, err := uc.disputeRepo.GetDisputeByOrderID(orderID); err == nil {
		return nil, &domain.AlreadyDisputedError{OrderID: orderID, DisputeID: existing.ID}
	} else if !errors.Is(err, domain.ErrDisputeNotFound) {
		return nil, err
	}

	if err := uc.orderRepo.UpdateOrderStatus(orderID, order.Status, domain.StatusDisputed, time.Now()); err != nil {
		return nil, err
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	dispute := &domain.Dispute{
		ID:          idGenerator(),
		OrderID:     orderID,
		InitiatorID: initiatorID,
		Reason:      reason,
		Status:      domain.DisputeOpen,
		OpenedAt:    time.Now(),
	}
	if err := uc.disputeRepo.CreateDispute(dispute); err != nil {
		return nil, err
	}

	if err := uc.userRepo.IncrementOpenDisputes(initiatorID); err != nil {
		slog.Error("failed to increment open disputes", "user_id", initiatorID, "error", err.Error())
	}
	if uc.Metrics != nil {
		initiator := "buyer"
		if initiatorID == order.SellerID {
			initiator = "seller"
		}
		uc.Metrics.RecordDisputeOpened(initiator)
	}

	go func(event domain.DisputeEvent) {
		if err := uc.publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish dispute event", "dispute_id", dispute.ID, "error", err.Error())
		}
	}(domain.DisputeEvent{
		Kind:        domain.EventDisputeOpened,
		DisputeID:   dispute.ID,
		OrderID:     orderID,
		BuyerID:     order.BuyerID,
		SellerID:    order.SellerID,
		InitiatorID: initiatorID,
		Reason:      reason,
	})

	return dispute, nil
}
