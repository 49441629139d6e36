package main

import (
	"context"
	"flag"
	"os"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"maintenance-system/migrations"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	applogger "maintenance-system/pkg/logger"
	"maintenance-system/seeders"
)

func main() {
	companyName := flag.String("company", "Demo Company", "name of the company to create")
	planCode := flag.String("plan", "BUSINESS", "subscription plan code")
	email := flag.String("email", "admin@example.com", "administrator e-mail")
	name := flag.String("name", "Admin", "administrator first name")
	migrate := flag.Bool("migrate", true, "apply migrations before seeding")
	flag.Parse()

	logger := applogger.NewLogger()
	defer func() { _ = logger.Sync() }()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		logger.Fatal("SEED_ADMIN_PASSWORD is not set")
	}

	ctx := context.Background()
	cfg := config.New()

	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("cannot connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if *migrate {
		if err := postgresql.Migrate(ctx, pool, migrations.FS, logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	err = seeders.New(pool, redisClient, logger).Run(ctx, seeders.Options{
		CompanyName:   *companyName,
		PlanCode:      *planCode,
		AdminEmail:    *email,
		AdminPassword: password,
		AdminName:     *name,
	})
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
}
