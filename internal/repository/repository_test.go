package repository_test

import (
	"context"
	"errors"
	"testing"

	"pos-service/internal/migrate"
	"pos-service/internal/models"
	"pos-service/internal/permissions"
	"pos-service/internal/repository"
	"pos-service/pkg/testutil"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func setupRepo(t *testing.T) *repository.Repository {
	t.Helper()
	db := testutil.SetupTestSQLite(t)

	// Запускаем миграцию явно в тесте
	if err := migrate.MigratePosDB(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return repository.New(db)
}

func seedProduct(t *testing.T, repo *repository.Repository, stock int, track bool) *models.Product {
	t.Helper()
	ctx := context.Background()

	cat := &models.Category{Name: "Drinks", Active: true}
	if err := repo.Categories.Create(ctx, cat); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	p := &models.Product{
		Name:          "Cola",
		Price:         decimal.RequireFromString("1.50"),
		StockQuantity: stock,
		TrackStock:    track,
		Active:        true,
		CategoryID:    cat.ID,
	}
	if err := repo.Products.Create(ctx, p); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return p
}

func TestUserRepo(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	user := models.User{Username: "cashier", Password: "hash", Role: models.RoleUser, Active: true}
	if err := repo.Users.Create(ctx, &user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	// проверка на уникальность
	dup := models.User{Username: "cashier", Password: "hash", Role: models.RoleUser}
	if err := repo.Users.Create(ctx, &dup); err == nil {
		t.Fatal("expected unique constraint error, got nil")
	}

	got, err := repo.Users.GetByUsername(ctx, "cashier")
	if err != nil {
		t.Fatalf("failed to get user by username: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Fatalf("unexpected user: %+v", got)
	}

	missing, err := repo.Users.GetByID(ctx, 9999)
	if err != nil {
		t.Fatalf("unexpected error for missing user: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing user")
	}

	ok, err := repo.Users.UpdateFields(ctx, user.ID, map[string]any{"role": models.RoleAdmin})
	if err != nil || !ok {
		t.Fatalf("failed to update role: ok=%v err=%v", ok, err)
	}
	got, _ = repo.Users.GetByID(ctx, user.ID)
	if got.Role != models.RoleAdmin {
		t.Fatalf("role not updated: got %s", got.Role)
	}

	if exists, err := repo.Users.ExistsByUsername(ctx, "nobody"); err != nil {
		t.Fatalf("failed to check username: %v", err)
	} else if exists {
		t.Fatal("expected username to not exist")
	}
}

func TestProductRepo_StockUpdatesAreConditional(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p := seedProduct(t, repo, 5, true)

	ok, err := repo.Products.TryDecrementStock(ctx, p.ID, 3)
	if err != nil || !ok {
		t.Fatalf("expected decrement to succeed: ok=%v err=%v", ok, err)
	}

	// остатка 2, списать 3 нельзя
	ok, err = repo.Products.TryDecrementStock(ctx, p.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected decrement beyond stock to be refused")
	}

	if _, err := repo.Products.IncrementStock(ctx, p.ID, 4); err != nil {
		t.Fatalf("failed to increment stock: %v", err)
	}
	got, _ := repo.Products.GetByID(ctx, p.ID)
	if got.StockQuantity != 6 {
		t.Fatalf("stock = %d, want 6", got.StockQuantity)
	}
	if got.Category == nil || got.Category.ID != p.CategoryID {
		t.Fatal("expected category to be preloaded")
	}

	ok, err = repo.Products.SetStock(ctx, p.ID, 42)
	if err != nil || !ok {
		t.Fatalf("failed to set stock: ok=%v err=%v", ok, err)
	}
	got, _ = repo.Products.GetByID(ctx, p.ID)
	if got.StockQuantity != 42 {
		t.Fatalf("stock = %d, want 42", got.StockQuantity)
	}
}

func TestProductRepo_UntrackedStockIsNeverTouched(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p := seedProduct(t, repo, 1, false)

	for name, fn := range map[string]func() (bool, error){
		"decrement": func() (bool, error) { return repo.Products.TryDecrementStock(ctx, p.ID, 1) },
		"increment": func() (bool, error) { return repo.Products.IncrementStock(ctx, p.ID, 1) },
		"set":       func() (bool, error) { return repo.Products.SetStock(ctx, p.ID, 10) },
	} {
		ok, err := fn()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if ok {
			t.Fatalf("%s: expected no rows affected for untracked product", name)
		}
	}

	got, _ := repo.Products.GetByID(ctx, p.ID)
	if got.StockQuantity != 1 {
		t.Fatalf("stock = %d, want 1", got.StockQuantity)
	}
}

func TestProductRepo_SoftDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p := seedProduct(t, repo, 1, true)

	if ok, err := repo.Products.SetActive(ctx, p.ID, false); err != nil || !ok {
		t.Fatalf("failed to deactivate: ok=%v err=%v", ok, err)
	}
	list, err := repo.Products.ListActive(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no active products, got %d", len(list))
	}

	got, _ := repo.Products.GetByID(ctx, p.ID)
	if got == nil || got.Active {
		t.Fatal("expected inactive product to still be readable by id")
	}
}

func TestRepository_WithTxRollsBack(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p := seedProduct(t, repo, 5, true)
	boom := errors.New("boom")

	err := repo.WithTx(ctx, func(tx *repository.Repository) error {
		if ok, err := tx.Products.TryDecrementStock(ctx, p.ID, 5); err != nil || !ok {
			t.Fatalf("decrement inside tx failed: ok=%v err=%v", ok, err)
		}
		if err := tx.Clients.Create(ctx, &models.Client{Name: "Walk-in", Active: true}); err != nil {
			t.Fatalf("create inside tx failed: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := repo.Products.GetByID(ctx, p.ID)
	if got.StockQuantity != 5 {
		t.Fatalf("stock = %d after rollback, want 5", got.StockQuantity)
	}
	clients, _ := repo.Clients.ListActive(ctx)
	if len(clients) != 0 {
		t.Fatalf("expected client insert to be rolled back, got %d", len(clients))
	}
}

func TestPermissionRepo(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.Permissions.UpsertCatalog(ctx, permissions.Catalog()); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	// повторный upsert не плодит строки
	if err := repo.Permissions.UpsertCatalog(ctx, permissions.Catalog()); err != nil {
		t.Fatalf("failed to re-seed catalog: %v", err)
	}
	all, err := repo.Permissions.List(ctx)
	if err != nil {
		t.Fatalf("failed to list permissions: %v", err)
	}
	if len(all) != len(permissions.Catalog()) {
		t.Fatalf("permissions = %d, want %d", len(all), len(permissions.Catalog()))
	}

	user := models.User{Username: "clerk", Password: "hash", Role: models.RoleUser, Active: true}
	if err := repo.Users.Create(ctx, &user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	names, err := repo.Permissions.NamesForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to read names: %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", names)
	}

	perms, err := repo.Permissions.GetByNames(ctx, []string{permissions.OrdersCreate, permissions.ProductsView, "bogus.perm"})
	if err != nil {
		t.Fatalf("failed to get by names: %v", err)
	}
	if len(perms) != 2 {
		t.Fatalf("expected 2 known permissions, got %d", len(perms))
	}
	ids := []uint{perms[0].ID, perms[1].ID}
	if err := repo.Permissions.Grant(ctx, user.ID, ids); err != nil {
		t.Fatalf("failed to grant: %v", err)
	}
	// повторная выдача игнорируется
	if err := repo.Permissions.Grant(ctx, user.ID, ids); err != nil {
		t.Fatalf("failed to re-grant: %v", err)
	}

	has, err := repo.Permissions.UserHas(ctx, user.ID, permissions.OrdersCreate)
	if err != nil || !has {
		t.Fatalf("expected user to have orders.create: has=%v err=%v", has, err)
	}

	n, err := repo.Permissions.RevokeAll(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to revoke: %v", err)
	}
	if n != 2 {
		t.Fatalf("revoked %d, want 2", n)
	}
	has, _ = repo.Permissions.UserHas(ctx, user.ID, permissions.OrdersCreate)
	if has {
		t.Fatal("expected permission to be revoked")
	}
}

func TestOrderRepo_TotalsSkipCancelled(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	user := models.User{Username: "seller", Password: "hash", Role: models.RoleUser, Active: true}
	if err := repo.Users.Create(ctx, &user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	client := models.Client{Name: "Walk-in", Active: true}
	if err := repo.Clients.Create(ctx, &client); err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	for _, o := range []models.Order{
		{Total: decimal.RequireFromString("10.50"), Status: models.OrderStatusCompleted},
		{Total: decimal.RequireFromString("4.25"), Status: models.OrderStatusUnpaid, IsUnpaid: true},
		{Total: decimal.RequireFromString("100.00"), Status: models.OrderStatusCancelled},
	} {
		o.CreatorID = user.ID
		o.ClientID = client.ID
		if err := repo.Orders.Create(ctx, &o); err != nil {
			t.Fatalf("failed to create order: %v", err)
		}
	}

	totals, err := repo.Orders.Totals(ctx, repository.OrderListFilter{})
	if err != nil {
		t.Fatalf("failed to compute totals: %v", err)
	}
	if totals.Count != 2 {
		t.Fatalf("count = %d, want 2", totals.Count)
	}
	if !totals.Total.Equal(decimal.RequireFromString("14.75")) {
		t.Fatalf("total = %s, want 14.75", totals.Total)
	}

	status := models.OrderStatusCancelled
	list, err := repo.Orders.List(ctx, repository.OrderListFilter{Status: &status})
	if err != nil {
		t.Fatalf("failed to list orders: %v", err)
	}
	if len(list) != 1 || list[0].Client == nil || list[0].Creator == nil {
		t.Fatalf("expected one cancelled order with parties preloaded, got %+v", list)
	}
}

func TestSpentRepo(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	user := models.User{Username: "manager", Password: "hash", Role: models.RoleUser, Active: true}
	if err := repo.Users.Create(ctx, &user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	a := models.Spent{Title: "Rent", Amount: decimal.RequireFromString("300"), CreatorID: user.ID}
	b := models.Spent{Title: "Ice", Amount: decimal.RequireFromString("12.30"), CreatorID: user.ID}
	for _, sp := range []*models.Spent{&a, &b} {
		if err := repo.Spents.Create(ctx, sp); err != nil {
			t.Fatalf("failed to create spent: %v", err)
		}
	}

	sum, err := repo.Spents.Sum(ctx, repository.SpentListFilter{})
	if err != nil {
		t.Fatalf("failed to sum: %v", err)
	}
	if !sum.Equal(decimal.RequireFromString("312.30")) {
		t.Fatalf("sum = %s, want 312.30", sum)
	}

	got, err := repo.Spents.GetByID(ctx, b.ID)
	if err != nil || got == nil || got.Creator == nil || got.Creator.Username != "manager" {
		t.Fatalf("expected spent with creator, got %+v err=%v", got, err)
	}

	if ok, err := repo.Spents.Delete(ctx, a.ID); err != nil || !ok {
		t.Fatalf("failed to delete: ok=%v err=%v", ok, err)
	}
	if ok, _ := repo.Spents.Delete(ctx, a.ID); ok {
		t.Fatal("expected second delete to affect nothing")
	}
	gone, _ := repo.Spents.GetByID(ctx, a.ID)
	if gone != nil {
		t.Fatal("expected hard delete")
	}
}
