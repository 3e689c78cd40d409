package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"fender-store/internal/sender"
	"fender-store/internal/service"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []sender.Notification
	err  error
}

func (f *fakeSender) SendEmail(n sender.Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

type fakeReader struct {
	msgs []kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) Close() error { return nil }

func orderEvent(t *testing.T) []byte {
	t.Helper()
	ev := service.OrderPlacedEvent{
		OrderID:   uuid.MustParse("8f14e45f-ceea-467f-a8f0-2a1b3c4d5e6f"),
		UserID:    uuid.New(),
		Email:     "buyer@example.com",
		FullName:  "Leo Fender",
		Total:     decimal.RequireFromString("45"),
		CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Items: []service.OrderItemEvent{
			{ProductName: "Jazzmaster", Color: "Red", Quantity: 2,
				Price: decimal.RequireFromString("10"), LineTotal: decimal.RequireFromString("20")},
			{ProductName: "Mustang", Color: "Blue", Quantity: 1,
				Price: decimal.RequireFromString("25"), LineTotal: decimal.RequireFromString("25")},
		},
	}
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return b
}

func TestKafkaOrderConsumer_SendsConfirmation(t *testing.T) {
	s := &fakeSender{}
	r := &fakeReader{msgs: []kafka.Message{
		{Value: []byte("not json")},
		{Value: orderEvent(t)},
	}}
	c := &KafkaOrderConsumer{reader: r, emailSender: s, log: zap.NewNop()}

	require.NoError(t, c.Run(context.Background()))
	require.Len(t, s.sent, 1)

	n := s.sent[0]
	assert.Equal(t, "buyer@example.com", n.To)
	assert.Equal(t, "order_confirmation", n.Template)
	assert.Equal(t, "Your order 8f14e45f is confirmed", n.Subject)

	data, ok := n.Data.(OrderConfirmationData)
	require.True(t, ok)
	assert.Equal(t, "45.00", data.Total)
	assert.Equal(t, "01 Mar 2026 10:30", data.PlacedAt)
	require.Len(t, data.Items, 2)
	assert.Equal(t, "10.00", data.Items[0].Price)
	assert.Equal(t, "20.00", data.Items[0].LineTotal)
}

func TestKafkaOrderConsumer_SkipsBadEvents(t *testing.T) {
	s := &fakeSender{err: errors.New("smtp down")}
	c := &KafkaOrderConsumer{reader: &fakeReader{}, emailSender: s, log: zap.NewNop()}

	noEmail, err := json.Marshal(service.OrderPlacedEvent{OrderID: uuid.New()})
	require.NoError(t, err)
	c.handle(noEmail)
	assert.Empty(t, s.sent)

	// ошибка отправки только логируется
	c.handle(orderEvent(t))
	assert.Len(t, s.sent, 1)
}
