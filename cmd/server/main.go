package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bridge-kita.backend/internal/config"
	"bridge-kita.backend/internal/domain/entities"
	"bridge-kita.backend/internal/infrastructure/blockchain"
	"bridge-kita.backend/internal/infrastructure/jobs"
	"bridge-kita.backend/internal/infrastructure/repositories"
	"bridge-kita.backend/internal/infrastructure/services"
	"bridge-kita.backend/internal/interfaces/http/handlers"
	"bridge-kita.backend/internal/interfaces/http/middleware"
	"bridge-kita.backend/internal/usecases"
	"bridge-kita.backend/pkg/logger"
	"bridge-kita.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newTONReader = func(ctx context.Context, configURL string) (*blockchain.TONClient, error) {
		return blockchain.NewTONClient(ctx, configURL)
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize repositories
	tokenRepo := repositories.NewTokenRepository(db)
	attemptRepo := repositories.NewTransferAttemptRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize blockchain clients
	clientFactory := blockchain.NewClientFactory()
	clientFactory.RegisterAelfClient(cfg.Blockchain.AccountChainMainRPC,
		blockchain.NewAelfClient(cfg.Blockchain.AccountChainMainRPC, cfg.Bridge.PollInterval, cfg.Bridge.PollCeiling))
	clientFactory.RegisterAelfClient(cfg.Blockchain.AccountChainSideRPC,
		blockchain.NewAelfClient(cfg.Blockchain.AccountChainSideRPC, cfg.Bridge.PollInterval, cfg.Bridge.PollCeiling))

	rpcURLs := map[entities.ChainID]string{
		"AELF":     cfg.Blockchain.AccountChainMainRPC,
		"tDVV":     cfg.Blockchain.AccountChainSideRPC,
		"1":        cfg.Blockchain.EthereumRPC,
		"11155111": cfg.Blockchain.SepoliaRPC,
		"56":       cfg.Blockchain.BSCRPC,
		"8453":     cfg.Blockchain.BaseRPC,
	}

	descriptorSvc := services.NewDescriptorClient(map[entities.ChainID]string{
		"AELF": cfg.Blockchain.AccountChainMainRPC,
		"tDVV": cfg.Blockchain.AccountChainSideRPC,
	})
	descriptorCache := blockchain.NewDescriptorCache(descriptorSvc, cfg.Bridge.DescriptorCacheTTL, redis.NewByteStore(nil))
	limitClient := services.NewLimitClient(cfg.Bridge.LimitServiceURL)

	deps := blockchain.DispatcherDeps{
		Descriptors: descriptorCache,
		Clients:     clientFactory,
		RPCURLs:     rpcURLs,
	}

	// Signing keys are optional; a family without one stays view-only and
	// sends on it fail with WALLET_NOT_CONNECTED.
	if cfg.Blockchain.EVMPrivateKey != "" {
		deps.EVMWallet = blockchain.NewPrivateKeyWallet(cfg.Blockchain.EVMPrivateKey)
		log.Printf("✅ EVM signer loaded (%s)", deps.EVMWallet.Address())
	} else {
		log.Println("⚠️ EVM_PRIVATE_KEY not set (EVM sends disabled)")
	}
	if cfg.Blockchain.AccountChainPrivateKey != "" {
		accountWallet, err := blockchain.NewAccountChainKeyWallet(cfg.Blockchain.AccountChainPrivateKey)
		if err != nil {
			return fmt.Errorf("account-chain signer: %w", err)
		}
		deps.AccountWallet = accountWallet
		log.Printf("✅ Account-chain signer loaded (%s)", accountWallet.Address())
	} else {
		log.Println("⚠️ AELF_PRIVATE_KEY not set (account-chain sends disabled)")
	}

	tonCtx, tonCancel := context.WithTimeout(ctx, 10*time.Second)
	tonReader, err := newTONReader(tonCtx, cfg.Blockchain.TONConfigURL)
	tonCancel()
	if err != nil {
		log.Printf("⚠️ TON liteservers not available: %v (TON reads disabled)", err)
	} else {
		deps.TONReader = tonReader
	}

	pool := blockchain.NewDispatcherPool(deps)
	dispatchers := usecases.PoolProvider(pool)

	// Initialize usecases
	bridgeContracts := chainKeyed(cfg.Contracts.BridgeAddresses)
	approvalUsecase := usecases.NewApprovalUsecase(dispatchers)
	limitUsecase := usecases.NewLimitUsecase(limitClient, dispatchers, bridgeContracts)
	transferUsecase := usecases.NewTransferUsecase(dispatchers, tokenRepo, approvalUsecase, limitUsecase, attemptRepo, usecases.TransferConfig{
		BridgeContracts: bridgeContracts,
		FeeTokens:       chainKeyed(cfg.Contracts.FeeTokens),
		SwapIDs:         cfg.Contracts.SwapIDs,
		TONNativeFee:    big.NewInt(cfg.Contracts.TONNativeFeeNano),
	})
	balanceUsecase := usecases.NewBalanceUsecase(dispatchers, tokenRepo)

	// Initialize handlers
	transferHandler := handlers.NewTransferHandler(transferUsecase)
	limitHandler := handlers.NewLimitHandler(limitUsecase)
	tokenHandler := handlers.NewTokenHandler(tokenRepo)
	balanceHandler := handlers.NewBalanceHandler(balanceUsecase)

	// Start background jobs
	sweeper := jobs.NewStaleAttemptJob(attemptRepo, 0)
	go sweeper.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		transferHandler: transferHandler,
		limitHandler:    limitHandler,
		tokenHandler:    tokenHandler,
		balanceHandler:  balanceHandler,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		sweeper.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 Bridge-Kita Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func chainKeyed(m map[string]string) map[entities.ChainID]string {
	out := make(map[entities.ChainID]string, len(m))
	for k, v := range m {
		out[entities.ChainID(k)] = v
	}
	return out
}
