package producer

import (
	"context"
	"encoding/json"
	"time"

	"fender-store/internal/service"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderProducer публикует OrderPlaced в Kafka; ключ сообщения = id заказа.
type OrderProducer struct {
	writer  messageWriter
	timeout time.Duration
}

func NewOrderProducer(brokers []string, topic string) *OrderProducer {
	return &OrderProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		timeout: 5 * time.Second,
	}
}

func (p *OrderProducer) PublishOrderPlaced(ctx context.Context, e service.OrderPlacedEvent) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.OrderID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("order.placed")},
		},
	})
}

func (p *OrderProducer) Close() error {
	return p.writer.Close()
}

var _ service.EventBus = (*OrderProducer)(nil)
