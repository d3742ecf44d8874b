package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/tradeguard/settlement-service/internal/domain"
)

const (
	OrderEventsTopic   = "order-events"
	DisputeEventsTopic = "dispute-events"
)

// KafkaEventPublisher implements domain.EventPublisher. The notifier
// service consumes these topics; rendering and delivery are its concern.
type KafkaEventPublisher struct {
	writer *kafka.Writer
}

func NewKafkaEventPublisher(brokers []string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *KafkaEventPublisher) PublishOrder(event domain.OrderEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(context.Background(), kafka.Message{
		Topic: OrderEventsTopic,
		Key:   []byte(event.OrderID),
		Value: msg,
		Time:  time.Now(),
	})
}

func (k *KafkaEventPublisher) PublishDispute(event domain.DisputeEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(context.Background(), kafka.Message{
		Topic: DisputeEventsTopic,
		Key:   []byte(event.OrderID),
		Value: msg,
		Time:  time.Now(),
	})
}

func (k *KafkaEventPublisher) Close() error {
	return k.writer.Close()
}
