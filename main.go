package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"medimanager/m/internal/alert"
	"medimanager/m/internal/api"
	"medimanager/m/internal/billing"
	"medimanager/m/internal/config"
	"medimanager/m/internal/database"
	"medimanager/m/internal/migrations"
	"medimanager/m/internal/seed"
	"medimanager/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	if cfg.MedicineCSV != "" {
		seed.LoadMedicines(db, cfg.MedicineCSV, logger)
	}

	medicines := store.NewMedicineStore(db)
	bills := store.NewBillStore(db)
	billingSvc := billing.NewService(db, bills)

	job := alert.NewJob(medicines, logger, cfg.AlertHour)
	job.Start(context.Background())
	defer job.Stop(context.Background())

	handler := api.New(medicines, bills, billingSvc)

	logger.Info("MediManager server starting", zap.String("port", cfg.HTTPPort))
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
