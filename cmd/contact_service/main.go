package main

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

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	// Platform packages
	"github.com/aradsms/contactbook/internal/platform/config"
	"github.com/aradsms/contactbook/internal/platform/database"
	"github.com/aradsms/contactbook/internal/platform/logger"
	"github.com/aradsms/contactbook/internal/platform/messagebroker"

	// Contact service packages
	grpcAdapter "github.com/aradsms/contactbook/internal/contact_service/adapters/grpc"
	httpAdapter "github.com/aradsms/contactbook/internal/contact_service/adapters/http"
	contactApp "github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/contact_service/domain"
	"github.com/aradsms/contactbook/internal/contact_service/repository"
	"github.com/aradsms/contactbook/internal/contact_service/repository/filestore"
	"github.com/aradsms/contactbook/internal/contact_service/repository/postgres"
	"github.com/aradsms/contactbook/internal/contact_service/repository/redisstore"
)

const (
	serviceName     = "contact_service"
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel).With("service", serviceName)
	appLogger.Info("Starting service...")
	appLogger.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"store", cfg.ContactsStore,
		"contacts_file", cfg.ContactsFile,
		"strict_load", cfg.ContactsStrictLoad,
		"write_through", cfg.ContactsWriteThrough,
		"nats_url", cfg.NATSUrl,
		"kafka_brokers", cfg.KafkaBrokers,
		"http_port", cfg.ContactServiceHTTPPort,
		"grpc_port", cfg.ContactServiceGRPCPort,
		"auth_enabled", cfg.JWTAccessSecret != "",
	)

	if err := run(context.Background(), cfg, appLogger); err != nil {
		appLogger.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Service shut down.")
}

// run serves until ctx is cancelled, a termination signal arrives or a
// server fails. Every opened resource is released before it returns.
func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	mainCtx, mainCancel := context.WithCancel(ctx)
	defer mainCancel()

	store, closeStore, err := openDocumentStore(mainCtx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("open contacts store: %w", err)
	}
	defer closeStore()

	repo, err := repository.New(mainCtx, store, appLogger,
		repository.WithStrictLoad(cfg.ContactsStrictLoad),
		repository.WithWriteThrough(cfg.ContactsWriteThrough),
	)
	if err != nil {
		return fmt.Errorf("load contacts from %s: %w", store.Location(), err)
	}
	report := repo.LoadReport()
	contactApp.ObserveLoad(report.Dropped)
	appLogger.Info("Contacts repository ready", "loaded", report.Loaded, "dropped", report.Dropped, "malformed", report.Malformed)

	var publishers []domain.EventPublisher
	if cfg.NATSUrl != "" {
		natsClient, err := messagebroker.NewNatsClient(cfg.NATSUrl, serviceName, appLogger)
		if err != nil {
			appLogger.Error("Failed to connect to NATS, NATS events disabled", "url", cfg.NATSUrl, "error", err)
		} else {
			defer natsClient.Close()
			publishers = append(publishers, natsClient)
			appLogger.Info("NATS client connected", "url", cfg.NATSUrl)
		}
	} else {
		appLogger.Info("NATS URL not configured, NATS events disabled.")
	}
	if cfg.KafkaBrokers != "" {
		producer, err := messagebroker.NewKafkaProducer(cfg.KafkaBrokers, serviceName, appLogger)
		if err != nil {
			appLogger.Error("Failed to create Kafka producer, Kafka events disabled", "brokers", cfg.KafkaBrokers, "error", err)
		} else {
			defer producer.Close()
			publishers = append(publishers, producer)
			appLogger.Info("Kafka producer ready", "brokers", cfg.KafkaBrokers)
		}
	}

	manager := contactApp.NewManager(repo, contactApp.NewEventPublisher(publishers...), cfg.ContactEventsSubject, appLogger)
	handler := httpAdapter.NewContactHandler(manager, appLogger, validator.New())

	var grpcServer *grpc.Server
	if cfg.ContactServiceGRPCPort != 0 {
		grpcServer = grpcAdapter.NewServer(manager, cfg.JWTAccessSecret, appLogger)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ContactServiceHTTPPort),
		Handler:           httpAdapter.NewRouter(handler, cfg.JWTAccessSecret, appLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed", "error", err)
			return err
		}
		appLogger.Info("HTTP server stopped.")
		return nil
	})

	if grpcServer != nil {
		g.Go(func() error {
			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.ContactServiceGRPCPort))
			if err != nil {
				appLogger.Error("Failed to listen for gRPC", "port", cfg.ContactServiceGRPCPort, "error", err)
				return err
			}
			appLogger.Info("gRPC server starting", "address", lis.Addr().String())
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				appLogger.Error("gRPC server failed", "error", err)
				return err
			}
			appLogger.Info("gRPC server stopped.")
			return nil
		})
	}

	g.Go(func() error {
		stopSignal := make(chan os.Signal, 1)
		signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-stopSignal:
			appLogger.Info("Received termination signal", "signal", sig.String())
			mainCancel()
			return nil
		case <-groupCtx.Done():
			return nil
		}
	})

	g.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Initiating graceful shutdown of HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server shutdown failed", "error", err)
		}
		if grpcServer != nil {
			appLogger.Info("Initiating graceful shutdown of gRPC server...")
			grpcServer.GracefulStop()
		}
		return nil
	})

	appLogger.Info("Service is ready and running.")

	var runErr error
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Service group encountered an error", "error", err)
		runErr = err
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := repo.Close(flushCtx); err != nil {
		appLogger.Error("Failed to flush contacts on shutdown", "error", err)
		runErr = errors.Join(runErr, err)
	}
	return runErr
}

// openDocumentStore selects the backing store named by CONTACTS_STORE.
func openDocumentStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (domain.DocumentStore, func(), error) {
	switch cfg.ContactsStore {
	case config.StorePostgres:
		dbPool, err := database.NewDBPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Database connection pool initialized")
		store := postgres.NewPgDocumentStore(dbPool, cfg.ContactsDocumentName, log)
		if err := store.EnsureSchema(ctx); err != nil {
			dbPool.Close()
			return nil, nil, err
		}
		return store, dbPool.Close, nil
	case config.StoreRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Redis client connected")
		return redisstore.NewRedisDocumentStore(client, cfg.ContactsDocumentName, log), func() { _ = client.Close() }, nil
	default:
		return filestore.NewJSONDocumentStore(cfg.ContactsFile, log), func() {}, nil
	}
}
