package service

import (
	"time"

	"pos-service/internal/models"

	"github.com/shopspring/decimal"
)

type OrderItemInput struct {
	ProductID uint            `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price" validate:"gt=0"`
}

type CreateOrderInput struct {
	ClientID uint `json:"clientId" validate:"required"`
	// CreatorID по умолчанию равен вызывающему пользователю.
	CreatorID  uint               `json:"creatorId"`
	Items      []OrderItemInput   `json:"items" validate:"required,min=1,dive"`
	Total      decimal.Decimal    `json:"total" validate:"gt=0"`
	AmountPaid decimal.Decimal    `json:"amountPaid" validate:"gte=0"`
	Change     decimal.Decimal    `json:"change" validate:"gte=0"`
	Status     models.OrderStatus `json:"status" validate:"omitempty,oneof=completed unpaid cancelled"`
	Note       *string            `json:"note" validate:"omitempty,max=1000"`
	IsUnpaid   bool               `json:"isUnpaid"`
}

type CancelOrderInput struct {
	ID   uint    `json:"id" validate:"required"`
	Note *string `json:"note" validate:"omitempty,max=1000"`
}

type UpdateOrderInput struct {
	ID         uint                `json:"id" validate:"required"`
	AmountPaid *decimal.Decimal    `json:"amountPaid" validate:"omitempty,gte=0"`
	Status     *models.OrderStatus `json:"status" validate:"omitempty,oneof=completed unpaid cancelled"`
	Note       *string             `json:"note" validate:"omitempty,max=1000"`
	IsUnpaid   *bool               `json:"isUnpaid"`
}

type OrderListInput struct {
	DateRangeInput
	Status *models.OrderStatus `json:"status" validate:"omitempty,oneof=completed unpaid cancelled"`
}

type PartyRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type OrderItemView struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type OrderView struct {
	ID         uint               `json:"id"`
	Total      decimal.Decimal    `json:"total"`
	AmountPaid decimal.Decimal    `json:"amountPaid"`
	Change     decimal.Decimal    `json:"change"`
	Status     models.OrderStatus `json:"status"`
	Note       *string            `json:"note"`
	IsUnpaid   bool               `json:"isUnpaid"`
	CreatorID  uint               `json:"creatorId"`
	ClientID   uint               `json:"clientId"`
	Creator    PartyRef           `json:"creator"`
	Client     PartyRef           `json:"client"`
	Items      []OrderItemView    `json:"items,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

func newOrderView(o *models.Order) OrderView {
	v := OrderView{
		ID:         o.ID,
		Total:      o.Total,
		AmountPaid: o.AmountPaid,
		Change:     o.Change,
		Status:     o.Status,
		Note:       o.Note,
		IsUnpaid:   o.IsUnpaid,
		CreatorID:  o.CreatorID,
		ClientID:   o.ClientID,
		Creator:    PartyRef{ID: o.CreatorID},
		Client:     PartyRef{ID: o.ClientID},
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	if o.Creator != nil {
		v.Creator.Name = o.Creator.DisplayName()
	}
	if o.Client != nil {
		v.Client.Name = o.Client.Name
	}
	for _, it := range o.Items {
		iv := OrderItemView{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
		if it.Product != nil {
			iv.ProductName = it.Product.Name
		}
		v.Items = append(v.Items, iv)
	}
	return v
}
