package bootstrap

import (
	"context"
	"fmt"

	"unimarket-backend/internal/config"
	"unimarket-backend/internal/infrastructure/database"
	"unimarket-backend/internal/interfaces/router"
)

// Run builds the app, verifies its dependencies, migrates, and listens.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		return fmt.Errorf("app create: %w", err)
	}

	// Verify connections before printing startup logs
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("postgres: get DB: %w", err)
		}
		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("postgres connection failed: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("postgres migrate failed: %w", err)
		}
		fmt.Println("Postgres connected")
	}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		fmt.Println("Redis connected")
	}
	fmt.Printf("Server running at http://localhost:%s\n", cfg.Port)
	fmt.Printf("Health check: http://localhost:%s/health/json\n", cfg.Port)
	fmt.Println("---")

	return app.Listen(":" + cfg.Port)
}
