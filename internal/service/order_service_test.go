package service_test

import (
	"context"
	"errors"
	"testing"

	"pos-service/internal/models"
	"pos-service/internal/repository"
	"pos-service/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestOrderCreate_DecrementsStock(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	ctx := f.adminCtx()

	client := f.newClient(t)
	cola := f.newProduct(t, "Cola", 10, true)
	water := f.newProduct(t, "Water", 4, true)

	order, err := f.orders.Create(ctx, orderInput(client.ID, line(cola.ID, 3), line(water.ID, 4)))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, f.admin.ID, order.CreatorID)
	assert.Equal(t, "Walk-in", order.Client.Name)
	assert.Equal(t, "Admin", order.Creator.Name)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Cola", order.Items[0].ProductName)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("17.50")))

	assert.Equal(t, 7, f.stockOf(t, cola.ID))
	assert.Equal(t, 0, f.stockOf(t, water.ID))

	require.Len(t, f.bus.created, 1)
	assert.Equal(t, order.ID, f.bus.created[0].OrderID)
	assert.Len(t, f.bus.created[0].Items, 2)
}

func TestOrderCreate_InsufficientStockRollsBackEverything(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	ctx := f.adminCtx()

	client := f.newClient(t)
	cola := f.newProduct(t, "Cola", 10, true)
	water := f.newProduct(t, "Water", 1, true)

	_, err := f.orders.Create(ctx, orderInput(client.ID, line(cola.ID, 5), line(water.ID, 2)))
	require.ErrorIs(t, err, service.ErrInsufficientStock)

	var stockErr *service.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Water", stockErr.ProductName)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	// списание первой позиции откатилось вместе с заказом
	assert.Equal(t, 10, f.stockOf(t, cola.ID))
	assert.Equal(t, 1, f.stockOf(t, water.ID))

	orders, err := f.orders.GetAll(ctx, service.OrderListInput{})
	require.NoError(t, err)
	assert.Empty(t, orders)

	var items int64
	require.NoError(t, f.repo.DB.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)
	assert.Empty(t, f.bus.created)
}

func TestOrderCreate_UntrackedProductKeepsStock(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	ctx := f.adminCtx()

	client := f.newClient(t)
	coffee := f.newProduct(t, "Coffee", 0, false)

	order, err := f.orders.Create(ctx, orderInput(client.ID, line(coffee.ID, 25)))
	require.NoError(t, err)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 0, f.stockOf(t, coffee.ID))

	_, err = f.orders.Cancel(ctx, service.CancelOrderInput{ID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, f.stockOf(t, coffee.ID))
}

func TestOrderCreate_Rejections(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	ctx := f.adminCtx()

	client := f.newClient(t)
	cola := f.newProduct(t, "Cola", 10, true)
	retired := f.newProduct(t, "Retired", 10, true)
	_, err := f.products.Delete(ctx, service.IDInput{ID: retired.ID})
	require.NoError(t, err)

	cases := []struct {
		name string
		ctx  context.Context
		in   service.CreateOrderInput
		want error
	}{
		{"anonymous", context.Background(), orderInput(client.ID, line(cola.ID, 1)), service.ErrUnauthorized},
		{"no items", ctx, service.CreateOrderInput{ClientID: client.ID, Total: decimal.NewFromInt(1)}, service.ErrEmptyItems},
		{"unknown client", ctx, orderInput(9999, line(cola.ID, 1)), service.ErrClientNotFound},
		{"unknown product", ctx, orderInput(client.ID, line(9999, 1)), service.ErrProductNotFound},
		{"inactive product", ctx, orderInput(client.ID, line(retired.ID, 1)), service.ErrProductInactive},
		{"created cancelled", ctx, func() service.CreateOrderInput {
			in := orderInput(client.ID, line(cola.ID, 1))
			in.Status = models.OrderStatusCancelled
			return in
		}(), service.ErrCreatedCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.Create(tc.ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Equal(t, 10, f.stockOf(t, cola.ID))
}

func TestOrderCreate_UnpaidFlagSetsStatus(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	client := f.newClient(t)
	cola := f.newProduct(t, "Cola", 10, true)

	in := orderInput(client.ID, line(cola.ID, 1))
	in.IsUnpaid = true
	in.AmountPaid = decimal.Zero

	order, err := f.orders.Create(f.adminCtx(), in)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusUnpaid, order.Status)
	assert.True(t, order.IsUnpaid)
}

func TestOrderCancel_RestoresStockOnce(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	ctx := f.adminCtx()

	client := f.newClient(t)
	cola := f.newProduct(t, "Cola", 10, true)

	order, err := f.orders.Create(ctx, orderInput(client.ID, line(cola.ID, 4)))
	require.NoError(t, err)
	require.Equal(t, 6, f.stockOf(t, cola.ID))

	cancelled, err := f.orders.Cancel(ctx, service.CancelOrderInput{ID: order.ID, Note: ptr("customer changed mind")})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.Note)
	assert.Equal(t, "customer changed mind", *cancelled.Note)
	assert.Equal(t, 10, f.stockOf(t, cola.ID))

	_, err = f.orders.Cancel(ctx, service.CancelOrderInput{ID: order.ID})
	require.ErrorIs(t, err, service.ErrAlreadyCancelled)
	assert.Equal(t, 10, f.stockOf(t, cola.ID))

	require.Len(t, f.bus.cancelled, 1)
	assert.Equal(t, f.admin.ID, f.bus.cancelled[0].CancelledBy)
	assert.Len(t, f.bus.cancelled[0].Restocked, 1)

	_, err = f.orders.Cancel(ctx, service.CancelOrderInput{ID: 9999})
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderUpdate(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	ctx := f.adminCtx()

	client := f.newClient(t)
	cola := f.newProduct(t, "Cola", 10, true)

	in := orderInput(client.ID, line(cola.ID, 2))
	in.IsUnpaid = true
	order, err := f.orders.Create(ctx, in)
	require.NoError(t, err)

	updated, err := f.orders.Update(ctx, service.UpdateOrderInput{
		ID:         order.ID,
		AmountPaid: ptr(decimal.RequireFromString("5.00")),
		Status:     ptr(models.OrderStatusCompleted),
		IsUnpaid:   ptr(false),
		Note:       ptr("paid later"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.False(t, updated.IsUnpaid)
	assert.True(t, updated.AmountPaid.Equal(decimal.NewFromInt(5)))

	// отмена только через orders.cancel, иначе остатки не вернутся
	_, err = f.orders.Update(ctx, service.UpdateOrderInput{ID: order.ID, Status: ptr(models.OrderStatusCancelled)})
	require.ErrorIs(t, err, service.ErrCancelViaUpdate)
	assert.Equal(t, 8, f.stockOf(t, cola.ID))

	_, err = f.orders.Cancel(ctx, service.CancelOrderInput{ID: order.ID})
	require.NoError(t, err)
	_, err = f.orders.Update(ctx, service.UpdateOrderInput{ID: order.ID, Status: ptr(models.OrderStatusCompleted)})
	assert.ErrorIs(t, err, service.ErrAlreadyCancelled)
}

func TestOrderCreate_ConcurrentBuyersNeverOversell(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	client := f.newClient(t)
	cola := f.newProduct(t, "Cola", 5, true)

	const buyers = 12
	results := make([]error, buyers)

	var g errgroup.Group
	for i := 0; i < buyers; i++ {
		i := i
		g.Go(func() error {
			_, err := f.orders.Create(f.adminCtx(), orderInput(client.ID, line(cola.ID, 1)))
			results[i] = err
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok, short int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, service.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, buyers-5, short)
	assert.Equal(t, 0, f.stockOf(t, cola.ID))
}

func TestOrderReads(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	ctx := f.adminCtx()

	client := f.newClient(t)
	cola := f.newProduct(t, "Cola", 10, true)

	first, err := f.orders.Create(ctx, orderInput(client.ID, line(cola.ID, 1)))
	require.NoError(t, err)
	second, err := f.orders.Create(ctx, orderInput(client.ID, line(cola.ID, 2)))
	require.NoError(t, err)
	_, err = f.orders.Cancel(ctx, service.CancelOrderInput{ID: first.ID})
	require.NoError(t, err)

	a, err := f.orders.GetByID(ctx, service.IDInput{ID: second.ID})
	require.NoError(t, err)
	b, err := f.orders.GetByID(ctx, service.IDInput{ID: second.ID})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	all, err := f.orders.GetAll(ctx, service.OrderListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed := models.OrderStatusCompleted
	onlyCompleted, err := f.orders.GetAll(ctx, service.OrderListInput{Status: &completed})
	require.NoError(t, err)
	require.Len(t, onlyCompleted, 1)
	assert.Equal(t, second.ID, onlyCompleted[0].ID)

	future, err := f.orders.GetAll(ctx, service.OrderListInput{DateRangeInput: service.DateRangeInput{From: &farFuture}})
	require.NoError(t, err)
	assert.Empty(t, future)

	past := farFuture.AddDate(-200, 0, 0)
	_, err = f.orders.GetAll(ctx, service.OrderListInput{DateRangeInput: service.DateRangeInput{From: &farFuture, To: &past}})
	assert.ErrorIs(t, err, service.ErrInvalidDateRange)

	_, err = f.orders.GetByID(ctx, service.IDInput{ID: 9999})
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderCreate_PublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	f.bus.err = errors.New("broker down")

	client := f.newClient(t)
	cola := f.newProduct(t, "Cola", 3, true)

	order, err := f.orders.Create(f.adminCtx(), orderInput(client.ID, line(cola.ID, 1)))
	require.NoError(t, err)

	stored, err := f.repo.Orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 2, f.stockOf(t, cola.ID))

	// позиции сохранены по цене из запроса
	items, err := repository.NewOrderItemRepo(f.repo.DB).ListByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("2.50")))
}

func TestOrderCreate_SecondSaleOfSameStockIsRejected(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	ctx := f.adminCtx()

	client := f.newClient(t)
	p := f.newProduct(t, "Lamp", 5, true)
	ten := decimal.NewFromInt(10)
	item := service.OrderItemInput{ProductID: p.ID, Quantity: 3, Price: ten}

	order, err := f.orders.Create(ctx, service.CreateOrderInput{ClientID: client.ID, Items: []service.OrderItemInput{item}, Total: decimal.NewFromInt(30)})
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(30)))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.True(t, order.Items[0].Price.Equal(ten))
	assert.Equal(t, 2, f.stockOf(t, p.ID))

	_, err = f.orders.Create(ctx, service.CreateOrderInput{ClientID: client.ID, Items: []service.OrderItemInput{item}, Total: decimal.NewFromInt(30)})
	require.ErrorIs(t, err, service.ErrInsufficientStock)
	assert.Equal(t, 2, f.stockOf(t, p.ID))
}
