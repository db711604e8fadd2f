package migrate

import (
	"context"

	"pos-service/internal/models"
	"pos-service/internal/permissions"
	"pos-service/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultAdminUsername = "admin"

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	Hasher        PasswordHasher
}

// Seed засевает каталог прав и создаёт администратора, если его ещё нет.
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger, opt SeedOptions) error {
	if opt.AdminUsername == "" {
		opt.AdminUsername = DefaultAdminUsername
	}

	return repository.New(db).WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Permissions.UpsertCatalog(ctx, permissions.Catalog()); err != nil {
			log.Error("Не удалось засеять каталог прав", zap.Error(err))
			return err
		}

		exists, err := tx.Users.ExistsByUsername(ctx, opt.AdminUsername)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		hash, err := opt.Hasher.Hash(opt.AdminPassword)
		if err != nil {
			return err
		}
		admin := &models.User{
			Username:  opt.AdminUsername,
			Password:  hash,
			FirstName: "Admin",
			Role:      models.RoleAdmin,
			Active:    true,
		}
		if err := tx.Users.Create(ctx, admin); err != nil {
			log.Error("Не удалось создать администратора", zap.Error(err))
			return err
		}
		log.Warn("Создан администратор по умолчанию, смените пароль", zap.String("username", admin.Username))
		return nil
	})
}
