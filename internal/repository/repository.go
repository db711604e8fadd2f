package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB          *gorm.DB
	Users       UserRepo
	Permissions PermissionRepo
	Categories  CategoryRepo
	Products    ProductRepo
	Clients     ClientRepo
	Orders      OrderRepo
	OrderItems  OrderItemRepo
	Spents      SpentRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:          db,
		Users:       NewUserRepo(db),
		Permissions: NewPermissionRepo(db),
		Categories:  NewCategoryRepo(db),
		Products:    NewProductRepo(db),
		Clients:     NewClientRepo(db),
		Orders:      NewOrderRepo(db),
		OrderItems:  NewOrderItemRepo(db),
		Spents:      NewSpentRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx выполняет fn в одной транзакции на весь набор репозиториев.
// Внутри fn допустимо обращаться только к tx: у базы одно соединение,
// и запрос через корневой handle будет ждать завершения этой же транзакции.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
