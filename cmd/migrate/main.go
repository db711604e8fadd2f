package main

import (
	"context"
	"os"

	"pos-service/config"
	"pos-service/internal/hashing"
	"pos-service/internal/migrate"
	"pos-service/pkg/database"
	"pos-service/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDBForMigration(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	ctx := context.Background()

	if err := migrate.MigratePosDB(ctx, db, log); err != nil {
		log.Fatal("Ошибка при выполнении миграции", zap.Error(err))
	}

	if err := migrate.Seed(ctx, db, log, migrate.SeedOptions{
		AdminPassword: cfg.Auth.AdminPassword,
		Hasher:        hashing.NewBcrypt(hashing.DefaultCost),
	}); err != nil {
		log.Fatal("Ошибка при заполнении начальными данными", zap.Error(err))
	}

	log.Info("Миграция успешно завершена")
}
