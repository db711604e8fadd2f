package producer

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"pos-service/internal/service"

	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderProducer публикует события заказов в Kafka, ключом сообщения служит id заказа.
type OrderProducer struct {
	writer messageWriter
}

func NewOrderProducer(brokers []string, topic string) *OrderProducer {
	return &OrderProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (p *OrderProducer) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	return p.send(ctx, e.OrderID, EventOrderCreated, e)
}

func (p *OrderProducer) PublishOrderCancelled(ctx context.Context, e service.OrderCancelledEvent) error {
	return p.send(ctx, e.OrderID, EventOrderCancelled, e)
}

func (p *OrderProducer) send(ctx context.Context, orderID uint, typ string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(envelope{Type: typ, Payload: payload})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(strconv.FormatUint(uint64(orderID), 10)),
		Value:   value,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(typ)}},
	})
}

func (p *OrderProducer) Close() error {
	return p.writer.Close()
}
