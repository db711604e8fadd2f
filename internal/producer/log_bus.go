package producer

import (
	"context"

	"pos-service/internal/service"

	"go.uber.org/zap"
)

// LogEventBus пишет события в лог, когда брокер не настроен.
type LogEventBus struct {
	log *zap.Logger
}

func NewLogEventBus(log *zap.Logger) *LogEventBus { return &LogEventBus{log: log} }

func (b *LogEventBus) PublishOrderCreated(_ context.Context, e service.OrderCreatedEvent) error {
	b.log.Info("event", zap.String("type", EventOrderCreated), zap.Uint("order_id", e.OrderID),
		zap.Int("items", len(e.Items)), zap.String("total", e.Total.String()))
	return nil
}

func (b *LogEventBus) PublishOrderCancelled(_ context.Context, e service.OrderCancelledEvent) error {
	b.log.Info("event", zap.String("type", EventOrderCancelled), zap.Uint("order_id", e.OrderID),
		zap.Uint("cancelled_by", e.CancelledBy), zap.Int("restocked", len(e.Restocked)))
	return nil
}
