package domain

import "time"

type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	StatusPaid           OrderStatus = "PAID"
	StatusShipping       OrderStatus = "SHIPPING"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusDisputed       OrderStatus = "DISPUTED"
	StatusRefunded       OrderStatus = "REFUNDED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// orderTransitions is the closed transition table of the order state machine.
// Forward-only: there is no undo path, only the terminal refund fork.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPendingPayment: {StatusPaid, StatusCancelled},
	StatusPaid:           {StatusShipping},
	StatusShipping:       {StatusDelivered, StatusConfirmed, StatusDisputed},
	StatusDelivered:      {StatusConfirmed, StatusDisputed},
	StatusDisputed:       {StatusConfirmed, StatusRefunded},
	StatusConfirmed:      {},
	StatusRefunded:       {},
	StatusCancelled:      {},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	ID           string
	BuyerID      string
	SellerID     string
	ListingID    string
	Amount       float64
	Currency     string
	Status       OrderStatus
	TrackingInfo string
	CreatedAt    time.Time
	PaidAt       *time.Time
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	ConfirmedAt  *time.Time
	ArchivedAt   *time.Time
}

type OrderRepository interface {
	CreateOrder(order *Order) error
	GetOrderByID(orderID string) (*Order, error)
	// UpdateOrderStatus is a conditional update keyed on the current status.
	// It returns ErrStateConflict when the row no longer matches from, which
	// is how concurrent transitions lose the race instead of double-applying.
	UpdateOrderStatus(orderID string, from, to OrderStatus, at time.Time) error
	SetTrackingInfo(orderID, trackingInfo string) error
	FindAutoConfirmCandidates(deliveredBefore time.Time) ([]*Order, error)
}
