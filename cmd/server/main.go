package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dukapos/internal/config"
	"dukapos/internal/handler"
	"dukapos/internal/infra"
	"dukapos/internal/repository"
	"dukapos/internal/router"
	"dukapos/internal/service"
	"dukapos/internal/worker"
)

// @title Duka POS API
// @version 1.0
// @description Point-of-sale and cash-session backend for small retail.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := infra.NewLogger(cfg.Env)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid timezone")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	rdb, err := infra.NewRedis(cfg.RedisURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	receipts, err := infra.NewReceiptRenderer(cfg.ReceiptStoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("receipt storage unavailable")
	}
	mailer := infra.NewMailer(cfg, log)
	excel := infra.NewExcelReports()

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	reportRepo := repository.NewReportRepository(db)

	queue := worker.NewRedisQueue(rdb)

	settingsSvc := service.NewSettingsService(settingsRepo, rdb, log)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.JWTRefreshHours, log)
	userSvc := service.NewUserService(userRepo, log)
	productSvc := service.NewProductService(productRepo, movementRepo, log)
	shiftSvc := service.NewShiftService(shiftRepo, saleRepo, expenseRepo, settingsRepo, queue, loc, log)
	checkoutSvc := service.NewCheckoutService(
		saleRepo, productRepo, movementRepo, settingsRepo, shiftSvc,
		queue, receipts, cfg.SettlementMaxRetries, log)
	voidSvc := service.NewVoidService(saleRepo, productRepo, movementRepo, shiftSvc, log)
	supplierSvc := service.NewSupplierService(supplierRepo, log)
	expenseSvc := service.NewExpenseService(expenseRepo, shiftSvc, log)
	reportSvc := service.NewReportService(reportRepo, excel, loc, log)

	engine := router.New(cfg, authSvc, router.Handlers{
		Health:   handler.NewHealthHandler(db, rdb),
		Auth:     handler.NewAuthHandler(authSvc),
		Products: handler.NewProductHandler(productSvc),
		POS:      handler.NewPOSHandler(checkoutSvc, voidSvc, cfg.ReceiptStoragePath),
		Shifts:   handler.NewShiftHandler(shiftSvc, expenseSvc),
		Supplier: handler.NewSupplierHandler(supplierSvc),
		Expenses: handler.NewExpenseHandler(expenseSvc),
		Reports:  handler.NewReportHandler(reportSvc),
		Settings: handler.NewSettingsHandler(settingsSvc),
		Users:    handler.NewUserHandler(userSvc),
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := worker.NewPool(rdb, cfg.WorkerPoolSize, log)
	pool.Register(service.QueueReconcile, worker.ReconcileHandler(checkoutSvc, log))
	pool.Register(service.QueueEmail, worker.EmailHandler(cfg, mailer, shiftSvc, checkoutSvc, log))
	pool.Start(ctx)

	cron := worker.NewRetryCron(saleRepo, queue, time.Minute, log)
	go cron.Run(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}
	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	pool.Wait()
	log.Info().Msg("bye")
}
