package migrate

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Migration struct {
	ID string
	Up func(tx *gorm.DB) error
}

// Порядок важен: новые версии добавляются только в конец.
var migrations = []Migration{
	{
		ID: "0001_initial_schema",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.User{},
				&models.Permission{},
				&models.UserPermission{},
				&models.Category{},
				&models.Product{},
				&models.Client{},
				&models.Order{},
				&models.OrderItem{},
				&models.Spent{},
			)
		},
	},
	{
		ID: "0002_lookup_indexes",
		Up: func(tx *gorm.DB) error {
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, active)`,
				`CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_order_items_order_product ON order_items(order_id, product_id)`,
			}
			for _, s := range stmts {
				if err := tx.Exec(s).Error; err != nil {
					return err
				}
			}
			return nil
		},
	},
}

func Migrations() []Migration { return migrations }

// MigratePosDB применяет недостающие версии схемы, каждую в своей транзакции.
func MigratePosDB(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	return Apply(ctx, db, log, migrations)
}

func Apply(ctx context.Context, db *gorm.DB, log *zap.Logger, list []Migration) error {
	log.Info("Начало миграции базы данных")

	if err := db.WithContext(ctx).AutoMigrate(&models.SchemaMigration{}); err != nil {
		log.Error("Не удалось создать таблицу schema_migrations", zap.Error(err))
		return err
	}

	var applied []string
	if err := db.WithContext(ctx).Model(&models.SchemaMigration{}).Pluck("id", &applied).Error; err != nil {
		return err
	}
	done := make(map[string]struct{}, len(applied))
	for _, id := range applied {
		done[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(list))
	for _, m := range list {
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("duplicate migration id %q", m.ID)
		}
		seen[m.ID] = struct{}{}

		if _, ok := done[m.ID]; ok {
			continue
		}

		log.Info("Применение миграции", zap.String("id", m.ID))
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&models.SchemaMigration{ID: m.ID, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			log.Error("Не удалось применить миграцию", zap.String("id", m.ID), zap.Error(err))
			return fmt.Errorf("migration %s: %w", m.ID, err)
		}
	}

	log.Info("Миграция базы данных завершена", zap.Int("total", len(list)), zap.Int("previously_applied", len(done)))
	return nil
}
