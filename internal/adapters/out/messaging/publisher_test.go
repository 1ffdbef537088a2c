package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"orderflow/internal/adapters/out/messaging"
	"orderflow/internal/adapters/out/messaging/memory"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, channel string, body []byte) error {
	return m.Called(ctx, channel, body).Error(0)
}

var created = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

func shippedOrder(t *testing.T) *order.Order {
	t.Helper()
	price, err := kernel.MoneyFromString("2499.99")
	require.NoError(t, err)
	address, err := kernel.NewAddress("123 Main St")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "Laptop", 2, price, address, created)
	require.NoError(t, err)
	require.NoError(t, o.Confirm(created))
	require.NoError(t, o.MarkShipped(kernel.NewUUID(), "SHIP-1-ABCDEF01", created))
	return o
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestPublishOrderCreated_SendsFlatEvent(t *testing.T) {
	o := shippedOrder(t)
	channel := memory.NewChannel()
	var received []byte
	channel.Subscribe("order-events", func(_ context.Context, body []byte) error {
		received = body
		return nil
	})

	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	publisher, err := messaging.NewOrderEventPublisher(channel, "", nil, meter)
	require.NoError(t, err)

	publisher.PublishOrderCreated(context.Background(), o)

	require.NotNil(t, received)
	var event map[string]any
	require.NoError(t, json.Unmarshal(received, &event))
	assert.Equal(t, o.ID().String(), event["orderId"])
	assert.Equal(t, o.UserID().String(), event["userId"])
	assert.Equal(t, "Laptop", event["productName"])
	assert.InDelta(t, 2, event["quantity"], 0)
	assert.Equal(t, "2499.99", event["totalPrice"])
	assert.Equal(t, "123 Main St", event["shippingAddress"])
	assert.Equal(t, "SHIP-1-ABCDEF01", event["trackingNumber"])
	assert.Equal(t, "2025-04-01T10:00:00Z", event["createdAt"])

	assert.Equal(t, int64(1), counterValue(t, reader, "orderflow.events.published"))
	assert.Equal(t, int64(0), counterValue(t, reader, "orderflow.events.publish_failures"))
}

func TestPublishOrderCreated_SwallowsSendFailure(t *testing.T) {
	o := shippedOrder(t)
	sender := new(MockSender)
	sender.On("Send", mock.Anything, "custom-queue", mock.Anything).Return(errors.New("queue unreachable")).Once()

	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	publisher, err := messaging.NewOrderEventPublisher(sender, "custom-queue", nil, meter)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		publisher.PublishOrderCreated(context.Background(), o)
	})

	sender.AssertExpectations(t)
	assert.Equal(t, int64(1), counterValue(t, reader, "orderflow.events.publish_failures"))
}

func TestPublishOrderCreated_IgnoresCallerCancellation(t *testing.T) {
	o := shippedOrder(t)
	sender := new(MockSender)
	sender.On("Send", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), messaging.DefaultChannel, mock.Anything).Return(nil).Once()

	publisher, err := messaging.NewOrderEventPublisher(sender, messaging.DefaultChannel, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	publisher.PublishOrderCreated(ctx, o)

	sender.AssertExpectations(t)
}

func TestPublishOrderCreated_SkipsUnconstructedOrder(t *testing.T) {
	sender := new(MockSender)
	publisher, err := messaging.NewOrderEventPublisher(sender, "", nil, nil)
	require.NoError(t, err)

	publisher.PublishOrderCreated(context.Background(), &order.Order{})

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewOrderEventPublisher_RequiresSender(t *testing.T) {
	_, err := messaging.NewOrderEventPublisher(nil, "", nil, nil)

	assert.Error(t, err)
}
