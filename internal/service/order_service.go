package service

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/repository"

	"go.uber.org/zap"
)

type OrderService struct {
	repo   *repository.Repository
	events EventBus
	now    func() time.Time
	log    *zap.Logger
}

func NewOrderService(repo *repository.Repository, events EventBus, log *zap.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		events: events,
		now:    time.Now,
		log:    log,
	}
}

// Create записывает заказ, позиции и списание остатков одной транзакцией.
// Любая ошибка откатывает всё, включая уже списанные остатки.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*OrderView, error) {
	caller, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}

	status := in.Status
	switch status {
	case "":
		status = models.OrderStatusCompleted
		if in.IsUnpaid {
			status = models.OrderStatusUnpaid
		}
	case models.OrderStatusCancelled:
		return nil, ErrCreatedCancelled
	case models.OrderStatusCompleted, models.OrderStatusUnpaid:
	default:
		return nil, ErrStatusUnsupported
	}

	creatorID := in.CreatorID
	if creatorID == 0 {
		creatorID = caller.UserID
	}

	var (
		order   *models.Order
		itemsDB []models.OrderItem
	)

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		client, err := tx.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return ErrClientNotFound
		}

		creator, err := tx.Users.GetByID(ctx, creatorID)
		if err != nil {
			return err
		}
		if creator == nil {
			return ErrUserNotFound
		}

		order = &models.Order{
			Total:      in.Total,
			AmountPaid: in.AmountPaid,
			Change:     in.Change,
			Status:     status,
			Note:       in.Note,
			IsUnpaid:   in.IsUnpaid,
			CreatorID:  creatorID,
			ClientID:   in.ClientID,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		itemsDB = make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			if it.Quantity <= 0 {
				return fmt.Errorf("%w: quantity must be > 0", ErrBadRequest)
			}

			p, err := tx.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: id %d", ErrProductNotFound, it.ProductID)
			}
			if !p.Active {
				return fmt.Errorf("%w: %q", ErrProductInactive, p.Name)
			}

			if p.TrackStock {
				ok, err := tx.Products.TryDecrementStock(ctx, p.ID, it.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return s.insufficient(ctx, tx, p, it.Quantity)
				}
			}

			itemsDB = append(itemsDB, models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			})
		}

		if err := tx.OrderItems.BulkCreate(ctx, itemsDB); err != nil {
			return err
		}

		order, err = tx.Orders.GetDetailed(ctx, order.ID)
		return err
	})
	if err != nil {
		s.log.Warn("Заказ не создан", zap.Uint("client_id", in.ClientID), zap.Uint("creator_id", creatorID), zap.Error(err))
		return nil, err
	}

	s.log.Info("Заказ создан", zap.Uint("order_id", order.ID), zap.String("total", order.Total.String()))

	if s.events != nil {
		evItems := make([]OrderItemEvent, 0, len(itemsDB))
		for _, it := range itemsDB {
			evItems = append(evItems, OrderItemEvent{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
		}
		if err := s.events.PublishOrderCreated(ctx, OrderCreatedEvent{
			OrderID:   order.ID,
			CreatorID: order.CreatorID,
			ClientID:  order.ClientID,
			Status:    order.Status,
			Items:     evItems,
			Total:     order.Total,
			CreatedAt: order.CreatedAt,
		}); err != nil {
			s.log.Warn("Не удалось опубликовать событие создания заказа", zap.Uint("order_id", order.ID), zap.Error(err))
		}
	}

	v := newOrderView(order)
	return &v, nil
}

func (s *OrderService) insufficient(ctx context.Context, tx *repository.Repository, p *models.Product, requested int) error {
	available := p.StockQuantity
	if fresh, err := tx.Products.GetByID(ctx, p.ID); err == nil && fresh != nil {
		available = fresh.StockQuantity
	}
	return &InsufficientStockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Requested:   requested,
		Available:   available,
	}
}

// Cancel возвращает на склад количество каждой позиции и переводит заказ в cancelled.
// Допустим только переход из completed или unpaid.
func (s *OrderService) Cancel(ctx context.Context, in CancelOrderInput) (*OrderView, error) {
	caller, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var (
		order     *models.Order
		restocked []OrderItemEvent
	)

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ord, err := tx.Orders.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if ord == nil {
			return ErrOrderNotFound
		}

		switch ord.Status {
		case models.OrderStatusCancelled:
			return ErrAlreadyCancelled
		case models.OrderStatusCompleted, models.OrderStatusUnpaid:
		default:
			return ErrStatusUnsupported
		}

		for _, it := range ord.Items {
			p, err := tx.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil || !p.TrackStock {
				continue
			}
			if _, err := tx.Products.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			restocked = append(restocked, OrderItemEvent{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
		}

		fields := map[string]any{"status": models.OrderStatusCancelled}
		if in.Note != nil {
			fields["note"] = *in.Note
		}
		if _, err := tx.Orders.UpdateFields(ctx, ord.ID, fields); err != nil {
			return err
		}

		order, err = tx.Orders.GetDetailed(ctx, ord.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Заказ отменён", zap.Uint("order_id", order.ID), zap.Uint("by", caller.UserID), zap.Int("restocked_lines", len(restocked)))

	if s.events != nil {
		note := ""
		if in.Note != nil {
			note = *in.Note
		}
		if err := s.events.PublishOrderCancelled(ctx, OrderCancelledEvent{
			OrderID:     order.ID,
			CancelledBy: caller.UserID,
			Note:        note,
			Restocked:   restocked,
			CancelledAt: s.now(),
		}); err != nil {
			s.log.Warn("Не удалось опубликовать событие отмены заказа", zap.Uint("order_id", order.ID), zap.Error(err))
		}
	}

	v := newOrderView(order)
	return &v, nil
}

// Update меняет оплату, статус и заметку. Остатки не пересчитываются,
// поэтому перевод в cancelled и выход из cancelled здесь запрещены.
func (s *OrderService) Update(ctx context.Context, in UpdateOrderInput) (*OrderView, error) {
	if _, err := requireAuth(ctx); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ord, err := tx.Orders.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if ord == nil {
			return ErrOrderNotFound
		}

		fields := map[string]any{}
		if in.Status != nil {
			switch *in.Status {
			case models.OrderStatusCancelled:
				return ErrCancelViaUpdate
			case models.OrderStatusCompleted, models.OrderStatusUnpaid:
			default:
				return ErrStatusUnsupported
			}
			if ord.Status == models.OrderStatusCancelled {
				return ErrAlreadyCancelled
			}
			fields["status"] = *in.Status
		}
		if in.AmountPaid != nil {
			fields["amount_paid"] = *in.AmountPaid
		}
		if in.Note != nil {
			fields["note"] = *in.Note
		}
		if in.IsUnpaid != nil {
			fields["is_unpaid"] = *in.IsUnpaid
		}

		if _, err := tx.Orders.UpdateFields(ctx, ord.ID, fields); err != nil {
			return err
		}
		order, err = tx.Orders.GetDetailed(ctx, ord.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	v := newOrderView(order)
	return &v, nil
}

func (s *OrderService) GetAll(ctx context.Context, in OrderListInput) ([]OrderView, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	list, err := s.repo.Orders.List(ctx, repository.OrderListFilter{From: in.From, To: in.To, Status: in.Status})
	if err != nil {
		return nil, err
	}
	out := make([]OrderView, 0, len(list))
	for i := range list {
		out = append(out, newOrderView(&list[i]))
	}
	return out, nil
}

func (s *OrderService) GetByID(ctx context.Context, in IDInput) (*OrderView, error) {
	ord, err := s.repo.Orders.GetDetailed(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	v := newOrderView(ord)
	return &v, nil
}
