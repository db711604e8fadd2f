package service

import (
	"context"
	"time"

	"pos-service/internal/models"

	"github.com/shopspring/decimal"
)

type OrderItemEvent struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderCreatedEvent struct {
	OrderID   uint               `json:"order_id"`
	CreatorID uint               `json:"creator_id"`
	ClientID  uint               `json:"client_id"`
	Status    models.OrderStatus `json:"status"`
	Items     []OrderItemEvent   `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
}

type OrderCancelledEvent struct {
	OrderID     uint             `json:"order_id"`
	CancelledBy uint             `json:"cancelled_by"`
	Note        string           `json:"note,omitempty"`
	Restocked   []OrderItemEvent `json:"restocked,omitempty"`
	CancelledAt time.Time        `json:"cancelled_at"`
}

type EventBus interface {
	PublishOrderCreated(ctx context.Context, e OrderCreatedEvent) error
	PublishOrderCancelled(ctx context.Context, e OrderCancelledEvent) error
}
