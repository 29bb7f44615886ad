package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/migrate"
	"github.com/example/storefront/internal/storefront"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "storefront-api",
	Short:        "Storefront HTTP API",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	blobs, closeBlobs, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBlobs()

	creds, err := user.NewSeededCredentialTable(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("seed credentials: %w", err)
	}

	opts := []storefront.RegistryOption{
		storefront.WithLatency(cfg.LoginLatency, cfg.OrderLatency),
		storefront.WithLogger(logger),
	}
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		opts = append(opts, storefront.WithPublisher(producer))
		logger.Info("publishing order events",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	}

	registry, err := storefront.NewRegistry(cfg.MaxWorkspaces, blobs, creds, opts...)
	if err != nil {
		return err
	}

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL,
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.CatalogTimeout}),
		catalog.WithCache(cfg.CatalogCacheSize, cfg.CatalogCacheTTL),
		catalog.WithLogger(logger),
	)

	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard
	srv := api.NewServer(cfg.HTTPAddr, api.RouterConfig{
		Workspaces:   registry,
		JWTService:   auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL),
		Catalog:      catalogClient,
		CORSOrigins:  cfg.CORSOrigins,
		SecureCookie: cfg.SecureCookie,
		Logger:       logger,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

func openBlobStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.BlobStore, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		if cfg.MigrateOnStart {
			if err := migrate.Apply(ctx, cfg.DatabaseURL); err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations applied")
		}
		db, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("connected to postgres")
		return store.NewPostgresBlobStore(db), func() { _ = db.Close() }, nil

	case config.StorageDynamoDB:
		client, err := store.NewDynamoClient(ctx, cfg.DynamoRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using dynamodb", zap.String("table", cfg.DynamoTable))
		return store.NewDynamoBlobStore(client, cfg.DynamoTable), func() {}, nil
	}

	return store.NewMemoryBlobStore(), func() {}, nil
}
