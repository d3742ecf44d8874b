package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tradeguard/settlement-service/internal/app/background"
	"github.com/tradeguard/settlement-service/internal/config"
	"github.com/tradeguard/settlement-service/internal/delivery/httpapi"
	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/gateway"
	"github.com/tradeguard/settlement-service/internal/infrastructure/kafka"
	"github.com/tradeguard/settlement-service/internal/infrastructure/logger"
	"github.com/tradeguard/settlement-service/internal/infrastructure/metrics"
	"github.com/tradeguard/settlement-service/internal/infrastructure/migrate"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/repository"
	disputeuc "github.com/tradeguard/settlement-service/internal/usecase/dispute"
	"github.com/tradeguard/settlement-service/internal/usecase/jury"
	orderuc "github.com/tradeguard/settlement-service/internal/usecase/order"
	"github.com/tradeguard/settlement-service/internal/usecase/reconcile"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if migrationsPath := os.Getenv("SETTLEMENT_MIGRATIONS_PATH"); migrationsPath != "" {
		if err := migrate.RunMigrations(db, migrationsPath); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	publisher := kafka.NewKafkaEventPublisher(brokers)
	defer publisher.Close()

	// Repositories
	orderRepo := repository.NewDefaultOrderRepository(db)
	escrowRepo := repository.NewDefaultEscrowRepository(db)
	settlementRepo := repository.NewDefaultSettlementRepository(db)
	disputeRepo := repository.NewDefaultDisputeRepository(db)
	voteRepo := repository.NewDefaultVoteRepository(db)
	userRepo := repository.NewDefaultUserRepository(db)

	paymentGateway := gateway.NewHTTPPaymentGateway(cfg.PaymentGateway.Address, cfg.PaymentGateway.Timeout)
	eventLogger := logger.NewPGSettlementEventLogger(db)
	settlementMetrics := metrics.NewSettlementMetrics()

	fees := domain.FeePolicy{
		BusinessRate: cfg.Settlement.BusinessFeeRate,
		StandardRate: cfg.Settlement.StandardFeeRate,
	}

	// Order usecase
	orderUsecase := orderuc.NewDefaultOrderUsecase(
		orderRepo,
		escrowRepo,
		settlementRepo,
		disputeRepo,
		userRepo,
		paymentGateway,
		publisher,
		eventLogger,
		fees,
	)
	orderUsecase.Metrics = settlementMetrics

	// Dispute usecase
	selector := jury.NewSelector(userRepo, disputeRepo, voteRepo)
	disputeUsecase := disputeuc.NewDefaultDisputeUsecase(
		disputeRepo,
		voteRepo,
		orderRepo,
		userRepo,
		selector,
		orderUsecase,
		publisher,
		eventLogger,
		cfg.Settlement.VotingTTL,
		cfg.Settlement.JuryQuorum,
		cfg.Settlement.LowQuorumVoteThreshold,
	)
	disputeUsecase.Metrics = settlementMetrics

	// Reconciliation scheduler
	scheduler := reconcile.NewScheduler(
		orderRepo,
		disputeRepo,
		orderUsecase,
		disputeUsecase,
		cfg.Settlement.AutoConfirmAfter,
	)
	scheduler.Metrics = settlementMetrics

	// HTTP server
	orderHandler := httpapi.NewOrderHandler(orderUsecase)
	disputeHandler := httpapi.NewDisputeHandler(disputeUsecase)
	reconcileHandler := httpapi.NewReconcileHandler(scheduler)
	router := httpapi.NewRouter(orderHandler, disputeHandler, reconcileHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tasks := background.NewBackgroundTasks(
		scheduler,
		cfg.Settlement.AutoConfirmInterval,
		cfg.Settlement.ExpireVotingsInterval,
	)
	tasks.StartAll(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("settlement service stopped", "error", err.Error())
		os.Exit(1)
	}
	slog.Info("settlement service stopped")
}
