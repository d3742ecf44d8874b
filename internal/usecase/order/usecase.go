package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/logger"
	"github.com/tradeguard/settlement-service/internal/infrastructure/metrics"
)

type OrderUsecase interface {
	CreateOrder(input *CreateOrderInput) (*domain.Order, error)
	GetOrderByID(orderID string) (*domain.Order, error)
	MarkPaid(ctx context.Context, orderID, gatewayTxnID string, amount float64) error
	MarkShipped(orderID, callerID, trackingInfo string) error
	MarkDelivered(orderID string) error
	ConfirmByBuyer(ctx context.Context, orderID, buyerID string) error
	ConfirmBySystem(ctx context.Context, orderID string) error
	CancelOrder(orderID string) error
	OpenDispute(orderID, initiatorID, reason string) (*domain.Dispute, error)
	SettleFromDispute(ctx context.Context, orderID string, buyerRefundRate float64) error
}

type CreateOrderInput struct {
	BuyerID   string
	SellerID  string
	ListingID string
	Amount    float64
	Currency  string
}

type DefaultOrderUsecase struct {
	orderRepo      domain.OrderRepository
	escrowRepo     domain.EscrowRepository
	settlementRepo domain.SettlementRepository
	disputeRepo    domain.DisputeRepository
	userRepo       domain.UserRepository
	gateway        domain.PaymentGateway
	publisher      domain.EventPublisher
	eventLogger    logger.SettlementEventLogger
	fees           domain.FeePolicy
	Metrics        *metrics.SettlementMetrics
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	escrowRepo domain.EscrowRepository,
	settlementRepo domain.SettlementRepository,
	disputeRepo domain.DisputeRepository,
	userRepo domain.UserRepository,
	gateway domain.PaymentGateway,
	publisher domain.EventPublisher,
	eventLogger logger.SettlementEventLogger,
	fees domain.FeePolicy,
) *DefaultOrderUsecase {
	return &DefaultOrderUsecase{
		orderRepo:      orderRepo,
		escrowRepo:     escrowRepo,
		settlementRepo: settlementRepo,
		disputeRepo:    disputeRepo,
		userRepo:       userRepo,
		gateway:        gateway,
		publisher:      publisher,
		eventLogger:    eventLogger,
		fees:           fees,
	}
}

func (uc *DefaultOrderUsecase) CreateOrder(input *CreateOrderInput) (*domain.Order, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if input.BuyerID == input.SellerID {
		return nil, domain.ErrNotParty
	}
	order := &domain.Order{
		ID:        uuid.NewString(),
		BuyerID:   input.BuyerID,
		SellerID:  input.SellerID,
		ListingID: input.ListingID,
		Amount:    domain.RoundMoney(input.Amount),
		Currency:  input.Currency,
		Status:    domain.StatusPendingPayment,
		CreatedAt: time.Now(),
	}
	if err := uc.orderRepo.CreateOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *DefaultOrderUsecase) GetOrderByID(orderID string) (*domain.Order, error) {
	return uc.orderRepo.GetOrderByID(orderID)
}

func (uc *DefaultOrderUsecase) CancelOrder(orderID string) error {
	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusPendingPayment {
		return &domain.InvalidStateError{
			Entity:     "order",
			ID:         orderID,
			Current:    string(order.Status),
			Transition: "cancel",
		}
	}
	return uc.orderRepo.UpdateOrderStatus(orderID, domain.StatusPendingPayment, domain.StatusCancelled, time.Now())
}

func (uc *DefaultOrderUsecase) publishOrderEvent(kind domain.OrderEventKind, order *domain.Order) {
	go func(event domain.OrderEvent) {
		if err := uc.publisher.PublishOrder(event); err != nil {
			slog.Error("failed to publish order event", "kind", string(kind), "order_id", order.ID, "error", err.Error())
		}
	}(domain.OrderEvent{
		Kind:     kind,
		OrderID:  order.ID,
		BuyerID:  order.BuyerID,
		SellerID: order.SellerID,
		Amount:   order.Amount,
		Currency: order.Currency,
	})
}
