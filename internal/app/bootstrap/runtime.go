package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cacheadapter "github.com/viralforge/chainpay/internal/adapters/cache"
	eventadapter "github.com/viralforge/chainpay/internal/adapters/events"
	httpadapter "github.com/viralforge/chainpay/internal/adapters/http"
	"github.com/viralforge/chainpay/internal/adapters/memory"
	"github.com/viralforge/chainpay/internal/adapters/postgres"
	"github.com/viralforge/chainpay/internal/application"
	"github.com/viralforge/chainpay/internal/evaluator"
	"github.com/viralforge/chainpay/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping payment engine",
		"service_id", cfg.ServiceID,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	cleanups := make([]func(), 0, 3)
	cleanup := func(context.Context) {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*Runtime, error) {
		cleanup(ctx)
		return nil, err
	}

	var (
		ledger  ports.BalanceLedger
		journal ports.JournalReader
		escrows ports.EscrowContractRepository
		htlcs   ports.HTLCContractRepository
		outbox  ports.OutboxRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if err != nil {
			return fail(fmt.Errorf("connect postgres: %w", err))
		}
		sqlDB, err := pool.DB()
		if err != nil {
			return fail(fmt.Errorf("gorm sql db: %w", err))
		}
		cleanups = append(cleanups, func() { _ = sqlDB.Close() })
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return fail(fmt.Errorf("run migrations: %w", err))
		}
		repos := postgres.NewRepositories(pool)
		ledger = repos.Ledger
		journal = repos.Ledger
		escrows = repos.Escrows
		htlcs = repos.HTLCs
		outbox = repos.Outbox
	} else {
		logger.Warn("no postgres url configured, using in-memory storage")
		memLedger := memory.NewBalanceLedger()
		ledger = memLedger
		journal = memLedger
		escrows = memory.NewEscrowContractRepository()
		htlcs = memory.NewHTLCContractRepository()
		outbox = memory.NewOutboxRepository()
	}

	var idempotency ports.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fail(fmt.Errorf("connect redis: %w", err))
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fail(fmt.Errorf("ping redis: %w", err))
		}
		cleanups = append(cleanups, func() { _ = redisClient.Close() })
		idempotency = cacheadapter.NewRedisIdempotencyStore(redisClient)
	} else {
		logger.Warn("no redis url configured, using in-memory idempotency store")
		idempotency = memory.NewIdempotencyStore()
	}

	var publisher ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventTopics)
		if err != nil {
			return fail(fmt.Errorf("init kafka publisher: %w", err))
		}
		cleanups = append(cleanups, func() { _ = kafkaPublisher.Close() })
		publisher = kafkaPublisher
	} else {
		logger.Warn("no kafka brokers configured, using in-memory publisher")
		publisher = eventadapter.NewMemoryPublisher()
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:          cfg.ServiceID,
			IdempotencyTTL:       cfg.IdempotencyTTL,
			OutboxFlushBatchSize: cfg.OutboxBatchSize,
		},
		Dispatcher:  evaluator.NewDispatcher(ledger, escrows),
		Ledger:      ledger,
		Journal:     journal,
		Escrows:     escrows,
		HTLCs:       htlcs,
		Idempotency: idempotency,
		Outbox:      outbox,
		Publisher:   publisher,
	})

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fail(fmt.Errorf("listen gRPC: %w", err))
	}

	worker := eventadapter.NewOutboxWorker(logger, svc, cfg.OutboxPollInterval)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		outbox:     worker,
		cleanupFn:  cleanup,
	}, nil
}

// RunAPI serves HTTP and gRPC until a shutdown signal, flushing the outbox
// in the background.
func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("outbox worker started")
		_ = r.outbox.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

// RunWorker runs only the outbox flush loop, for deployments that split the
// API and delivery planes.
func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("outbox worker started")
	err := r.outbox.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	return nil
}
