package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"fender-store/internal/sender"
	"fender-store/internal/service"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const orderConfirmationTemplate = "order_confirmation"

type EmailSender interface {
	SendEmail(n sender.Notification) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// OrderConfirmationData данные шаблона order_confirmation
type OrderConfirmationData struct {
	OrderID  string
	FullName string
	Items    []OrderConfirmationItem
	Total    string
	PlacedAt string
}

type OrderConfirmationItem struct {
	ProductName string
	Color       string
	Quantity    int32
	Price       string
	LineTotal   string
}

type KafkaOrderConsumer struct {
	reader      messageReader
	emailSender EmailSender
	log         *zap.Logger
}

func NewKafkaOrderConsumer(brokers []string, groupID, topic string, emailSender EmailSender, log *zap.Logger) *KafkaOrderConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &KafkaOrderConsumer{reader: r, emailSender: emailSender, log: log}
}

func (c *KafkaOrderConsumer) Run(ctx context.Context) error {
	c.log.Info("kafka consumer started")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			c.log.Error("read message", zap.Error(err))
			continue
		}
		c.handle(m.Value)
	}
}

func (c *KafkaOrderConsumer) handle(value []byte) {
	var ev service.OrderPlacedEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		c.log.Error("unmarshal order event", zap.ByteString("value", value), zap.Error(err))
		return
	}
	if ev.Email == "" {
		c.log.Warn("order event without email", zap.String("order_id", ev.OrderID.String()))
		return
	}

	n := sender.Notification{
		To:       ev.Email,
		Subject:  "Your order " + shortID(ev.OrderID.String()) + " is confirmed",
		Template: orderConfirmationTemplate,
		Data:     confirmationData(ev),
	}
	if err := c.emailSender.SendEmail(n); err != nil {
		c.log.Error("send email failed", zap.String("to", ev.Email), zap.String("order_id", ev.OrderID.String()), zap.Error(err))
		return
	}
	c.log.Info("order confirmation sent", zap.String("to", ev.Email), zap.String("order_id", ev.OrderID.String()))
}

func confirmationData(ev service.OrderPlacedEvent) OrderConfirmationData {
	d := OrderConfirmationData{
		OrderID:  ev.OrderID.String(),
		FullName: ev.FullName,
		Total:    ev.Total.StringFixed(2),
		PlacedAt: ev.CreatedAt.Format("02 Jan 2006 15:04"),
		Items:    make([]OrderConfirmationItem, 0, len(ev.Items)),
	}
	for _, it := range ev.Items {
		d.Items = append(d.Items, OrderConfirmationItem{
			ProductName: it.ProductName,
			Color:       it.Color,
			Quantity:    it.Quantity,
			Price:       it.Price.StringFixed(2),
			LineTotal:   it.LineTotal.StringFixed(2),
		})
	}
	return d
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (c *KafkaOrderConsumer) Close() error { return c.reader.Close() }
