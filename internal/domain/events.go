package domain

type OrderEventKind string

const (
	EventOrderPaid      OrderEventKind = "ORDER_PAID"
	EventOrderShipped   OrderEventKind = "ORDER_SHIPPED"
	EventOrderDelivered OrderEventKind = "ORDER_DELIVERED"
	EventOrderConfirmed OrderEventKind = "ORDER_CONFIRMED"
	EventAutoConfirmed  OrderEventKind = "AUTO_CONFIRMED"
)

type DisputeEventKind string

const (
	EventDisputeOpened   DisputeEventKind = "DISPUTE_OPENED"
	EventVotingStarted   DisputeEventKind = "VOTING_STARTED"
	EventDisputeResolved DisputeEventKind = "DISPUTE_RESOLVED"
)

type OrderEvent struct {
	Kind     OrderEventKind `json:"kind"`
	OrderID  string         `json:"order_id"`
	BuyerID  string         `json:"buyer_id"`
	SellerID string         `json:"seller_id"`
	Amount   float64        `json:"amount"`
	Currency string         `json:"currency"`
}

type DisputeEvent struct {
	Kind            DisputeEventKind `json:"kind"`
	DisputeID       string           `json:"dispute_id"`
	OrderID         string           `json:"order_id"`
	BuyerID         string           `json:"buyer_id"`
	SellerID        string           `json:"seller_id"`
	InitiatorID     string           `json:"initiator_id,omitempty"`
	Reason          string           `json:"reason,omitempty"`
	JurorIDs        []string         `json:"juror_ids,omitempty"`
	BuyerRefundRate *float64         `json:"buyer_refund_rate,omitempty"`
}

// EventPublisher hands typed events to the notifier pipeline. Delivery
// mechanics are entirely the notifier's concern.
type EventPublisher interface {
	PublishOrder(event OrderEvent) error
	PublishDispute(event DisputeEvent) error
}
