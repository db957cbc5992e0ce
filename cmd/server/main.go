package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/redis/go-redis/v9"

	adminapp "pack-vault/internal/application/admin"
	authapp "pack-vault/internal/application/auth"
	packapp "pack-vault/internal/application/pack"
	"pack-vault/internal/domain/access"
	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/pack"
	"pack-vault/internal/domain/service"
	"pack-vault/internal/domain/transaction"
	"pack-vault/internal/infrastructure/cache"
	"pack-vault/internal/infrastructure/chain"
	"pack-vault/internal/infrastructure/config"
	"pack-vault/internal/infrastructure/lock"
	"pack-vault/internal/infrastructure/messaging"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
	grpcserver "pack-vault/internal/presentation/grpc"
	"pack-vault/internal/presentation/rest"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	logger := otelinfra.NewLogger(otelinfra.Tracer("pack-vault"),
		otelinfra.WithLevel(otelinfra.ParseLogLevel(cfg.LogLevel)),
		otelinfra.WithService(cfg.OpenTelemetry.ServiceName),
	)
	metrics, err := otelinfra.NewMetrics("pack-vault")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	ctx := context.Background()

	// 永続化層の初期化
	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Printf("Failed to close storage: %v", err)
		}
	}()
	if err := bootstrapRoles(ctx, store.roles, cfg.Vault.Admins); err != nil {
		log.Fatalf("Failed to bootstrap roles: %v", err)
	}

	// 再入ガードとイベント通知（Redis有効時は複数インスタンスで共有）
	var guard transaction.Guard = lock.NewLocalGuard()
	var publisher pack.EventPublisher
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		guard = lock.NewRedisGuard(client, cfg.Redis.GuardKey, cfg.Redis.GuardTTL, logger)
		publisher = messaging.NewRedisEventPublisher(client, cfg.Redis.EventChannel)
	}

	// ブロックエントロピーの取得元
	var beacon service.BlockBeacon
	if cfg.Chain.RPCURL != "" {
		ethBeacon, closeBeacon, err := chain.DialEthBeacon(ctx, cfg.Chain.RPCURL, cfg.Chain.Timeout)
		if err != nil {
			log.Fatalf("Failed to connect to chain: %v", err)
		}
		defer closeBeacon()
		beacon = ethBeacon
	} else {
		beacon = chain.NewLocalBeacon(crypto.Keccak256Hash([]byte(cfg.Vault.Account)), time.Now)
	}

	// アプリケーションサービスの初期化
	packService := packapp.NewPackApplicationService(packapp.Dependencies{
		PackRepo:  store.packRepo,
		Metadata:  store.metadata,
		EventRepo: store.events,
		Publisher: publisher,
		Roles:     store.roles,
		Pause:     store.pause,
		Identity:  access.NewIdentityResolver(cfg.Vault.TrustedForwarders),
		TxManager: store.txManager,
		Guard:     guard,
		Transfers: service.NewAssetTransferService(store.ledger, cfg.Vault.Account, asset.NativeCurrency{
			Source:        cfg.Vault.NativeSource,
			WrappedSource: cfg.Vault.WrappedNativeSource,
			Reserve:       cfg.Vault.NativeReserve,
		}),
		Receipts: service.NewReceiptAccountingService(store.shares),
		Sampler:  service.NewRewardSampler(cfg.Vault.SamplerRecomputePool),
		Beacon:   beacon,
		Cache:    cache.NewContentsCache(cfg.Vault.ContentsCacheTTL),
		Logger:   logger,
		Metrics:  metrics,
	})
	adminService := adminapp.NewAdminApplicationService(
		store.roles,
		store.pause,
		store.packRepo,
		store.metadata,
		store.ledger,
		store.txManager,
		logger,
	)
	authService := authapp.NewAuthApplicationService(&cfg.JWT, logger)

	// REST APIルーターの初期化
	router, err := rest.NewRouter(cfg, logger.With(map[string]interface{}{"component": "rest"}), metrics, packService, adminService, authService)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// gRPCサーバーの初期化
	grpcSrv, err := grpcserver.NewServer(cfg, logger.With(map[string]interface{}{"component": "grpc"}), packService, adminService)
	if err != nil {
		log.Fatalf("Failed to create gRPC server: %v", err)
	}

	address := fmt.Sprintf(":%d", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info(ctx, "REST API server starting", map[string]interface{}{
			"address": address,
			"storage": cfg.Vault.StorageDriver,
		})
		if err := router.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "REST API server stopped", err, nil)
		}
	}()

	go func() {
		if err := grpcSrv.Start(); err != nil {
			logger.Error(ctx, "gRPC server stopped", err, nil)
		}
	}()

	<-quit
	log.Println("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down REST API server: %v", err)
	}
	if err := grpcSrv.Stop(shutdownCtx); err != nil {
		log.Printf("Error shutting down gRPC server: %v", err)
	}

	log.Println("Servers stopped")
}
