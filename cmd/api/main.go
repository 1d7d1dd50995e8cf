package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hugecapital/auth"
	"hugecapital/config"
	"hugecapital/content"
	"hugecapital/db"
	"hugecapital/deal"
	"hugecapital/feedback"
	"hugecapital/funding"
	"hugecapital/httpapi"
	"hugecapital/lender"
	"hugecapital/observability"
	"hugecapital/task"
	"hugecapital/team"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	metrics := observability.NewMetrics()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Fatal("bootstrap database pool", zap.Error(err))
	}
	defer pool.Close()

	store := lender.NewPGStore(pool)
	normalizer := lender.NewNormalizer(logger, metrics)
	coordinator := lender.NewCoordinator(store, normalizer, logger, metrics)
	if err := coordinator.Refresh(ctx); err != nil {
		logger.Fatal("load lender records", zap.Error(err))
	}
	logger.Info("lender cache ready", zap.Int("records", coordinator.Size()))

	authService := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret)
	teamService := team.NewService(team.NewRepository(pool))
	taskService := task.NewService(task.NewRepository(pool), teamService)
	contentService := content.NewService(content.NewRepository(pool))
	dealService := deal.NewService(deal.NewRepository(pool))
	fundingService := funding.NewService(funding.NewRepository(pool))
	feedbackService := feedback.NewService(feedback.NewRepository(pool))

	router := httpapi.NewRouter(cfg, logger, metrics, httpapi.Dependencies{
		AuthService:     authService,
		AuthHandler:     httpapi.NewAuthHandler(authService),
		LenderHandler:   httpapi.NewLenderHandler(coordinator),
		DealHandler:     httpapi.NewDealHandler(dealService),
		TaskHandler:     httpapi.NewTaskHandler(taskService),
		ContentHandler:  httpapi.NewContentHandler(contentService),
		FundingHandler:  httpapi.NewFundingHandler(fundingService),
		FeedbackHandler: httpapi.NewFeedbackHandler(feedbackService),
		TeamHandler:     httpapi.NewTeamHandler(teamService),
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
