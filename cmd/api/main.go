package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"statkit/adapters/postgres"
	"statkit/api"
	"statkit/internal"
	"statkit/internal/config"
	"statkit/internal/testkit"
	"statkit/ports"
	"statkit/stat"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	stat.ConfigureExactLimits(stat.ExactLimits{
		Kendall:     cfg.Evaluator.KendallExactLimit,
		MannWhitney: cfg.Evaluator.MannWhitneyExactLimit,
		KS:          cfg.Evaluator.KSExactLimit,
		KSHard:      cfg.Evaluator.KSExactHardLimit,
	})

	logger := internal.NewDefaultLogger()

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewRunRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("database: %v", err)
		}
		runs = repo
		logger.Info("persisting runs to postgres")
	} else {
		runs = testkit.NewInMemoryRunRepository()
		logger.Info("DATABASE_URL not set, keeping runs in memory")
	}

	server := api.NewServer(api.Config{
		Runs:    runs,
		Logger:  logger,
		Workers: cfg.Evaluator.Workers,
	})
	if err := server.Serve(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
