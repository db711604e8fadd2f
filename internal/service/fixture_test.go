package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"pos-service/internal/cache"
	"pos-service/internal/hashing"
	"pos-service/internal/migrate"
	"pos-service/internal/models"
	"pos-service/internal/repository"
	"pos-service/internal/service"
	"pos-service/internal/token"
	"pos-service/pkg/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// recordingBus запоминает опубликованные события.
type recordingBus struct {
	mu        sync.Mutex
	created   []service.OrderCreatedEvent
	cancelled []service.OrderCancelledEvent
	err       error
}

func (b *recordingBus) PublishOrderCreated(_ context.Context, e service.OrderCreatedEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, e)
	return b.err
}

func (b *recordingBus) PublishOrderCancelled(_ context.Context, e service.OrderCancelledEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelled = append(b.cancelled, e)
	return b.err
}

type fixture struct {
	repo   *repository.Repository
	hasher *hashing.Bcrypt
	tokens *token.HSProvider
	bus    *recordingBus

	perms      *service.PermissionService
	auth       *service.AuthService
	users      *service.UserService
	categories *service.CategoryService
	products   *service.ProductService
	clients    *service.ClientService
	orders     *service.OrderService
	spents     *service.SpentService
	reports    *service.ReportService

	admin *models.User
}

func newFixture(t *testing.T, opt service.AuthOptions) *fixture {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	db := testutil.SetupTestSQLite(t)
	require.NoError(t, migrate.MigratePosDB(ctx, db, log))

	hasher := hashing.NewBcrypt(bcrypt.MinCost)
	require.NoError(t, migrate.Seed(ctx, db, log, migrate.SeedOptions{AdminPassword: "admin123", Hasher: hasher}))

	tokens, err := token.NewHSProvider("access-secret", "refresh-secret", "pos-test")
	require.NoError(t, err)

	repo := repository.New(db)
	bus := &recordingBus{}
	permCache, err := cache.NewLocalPermissionCache(time.Minute)
	require.NoError(t, err)
	t.Cleanup(permCache.Close)
	perms := service.NewPermissionService(repo, permCache, log)

	admin, err := repo.Users.GetByUsername(ctx, migrate.DefaultAdminUsername)
	require.NoError(t, err)
	require.NotNil(t, admin)

	return &fixture{
		repo:       repo,
		hasher:     hasher,
		tokens:     tokens,
		bus:        bus,
		perms:      perms,
		auth:       service.NewAuthService(repo, hasher, tokens, perms, opt, log),
		users:      service.NewUserService(repo, hasher, perms, log),
		categories: service.NewCategoryService(repo, log),
		products:   service.NewProductService(repo, log),
		clients:    service.NewClientService(repo, log),
		orders:     service.NewOrderService(repo, bus, log),
		spents:     service.NewSpentService(repo, log),
		reports:    service.NewReportService(repo, log),
		admin:      admin,
	}
}

func asUser(u *models.User) context.Context {
	return service.WithIdentity(context.Background(), service.Identity{UserID: u.ID, Username: u.Username, Role: u.Role})
}

func (f *fixture) adminCtx() context.Context { return asUser(f.admin) }

func (f *fixture) newUser(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := f.users.Create(f.adminCtx(), service.CreateUserInput{Username: username, Password: "secret123"})
	require.NoError(t, err)
	return u
}

func (f *fixture) newClient(t *testing.T) *models.Client {
	t.Helper()
	c, err := f.clients.Create(f.adminCtx(), service.CreateClientInput{Name: "Walk-in"})
	require.NoError(t, err)
	return c
}

func (f *fixture) newProduct(t *testing.T, name string, stock int, track bool) *models.Product {
	t.Helper()
	ctx := f.adminCtx()

	cat, err := f.repo.Categories.GetByName(ctx, "General")
	require.NoError(t, err)
	if cat == nil {
		cat, err = f.categories.Create(ctx, service.CreateCategoryInput{Name: "General"})
		require.NoError(t, err)
	}

	p, err := f.products.Create(ctx, service.CreateProductInput{
		Name:          name,
		Price:         decimal.RequireFromString("2.50"),
		StockQuantity: stock,
		TrackStock:    &track,
		CategoryID:    cat.ID,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stockOf(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.repo.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

func orderInput(clientID uint, items ...service.OrderItemInput) service.CreateOrderInput {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return service.CreateOrderInput{
		ClientID:   clientID,
		Items:      items,
		Total:      total,
		AmountPaid: total,
	}
}

func line(productID uint, qty int) service.OrderItemInput {
	return service.OrderItemInput{ProductID: productID, Quantity: qty, Price: decimal.RequireFromString("2.50")}
}

func ptr[T any](v T) *T { return &v }

var farFuture = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
