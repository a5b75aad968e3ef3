// Command repairflow-server starts the RepairFlow gRPC server.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/repairflow/internal/api"
	"github.com/and161185/repairflow/internal/archive"
	"github.com/and161185/repairflow/internal/config"
	pkgcrypto "github.com/and161185/repairflow/internal/crypto"
	"github.com/and161185/repairflow/internal/limiter"
	"github.com/and161185/repairflow/internal/metrics"
	"github.com/and161185/repairflow/internal/repository"
	grpcserver "github.com/and161185/repairflow/internal/server/grpc"
	"github.com/and161185/repairflow/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, opens the store, and serves the gRPC API plus /metrics.
func main() {
	cfg, err := config.Load(os.Args[1:], os.LookupEnv)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		// logger is not built yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}

	logger := newLogger(cfg.Dev)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Listen),
		zap.String("store", cfg.Store.Driver),
		zap.String("archive", cfg.Archive.Driver),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, err := cfg.Credentials()
	if err != nil {
		logger.Fatal("credentials", zap.Error(err))
	}

	store, lim, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer closeStore(store, logger)

	arch, err := archive.Open(ctx, cfg.ArchiveConfig())
	if err != nil {
		logger.Fatal("open archive", zap.Error(err))
	}

	m := metrics.New()
	svcs := newServices(cfg, store, users, lim, arch, logger, m)

	// gRPC server with interceptors
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoverUnary(logger),
			grpcserver.LoggingUnary(logger),
			grpcserver.MetricsUnary(m),
			grpcserver.AuthUnary(svcs.Auth),
		),
	}
	if cfg.TLSCert != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			logger.Fatal("failed to load TLS cert/key", zap.Error(err))
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		logger.Warn("TLS disabled, serving plaintext")
	}
	s := grpc.NewServer(opts...)
	api.RegisterRepairFlowServer(s, grpcserver.New(svcs))

	// Health & reflection (dev)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	if cfg.Dev {
		reflection.Register(s)
	}

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Listen), zap.Bool("tls", cfg.TLSCert != ""))
		errCh <- s.Serve(lis)
	}()

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	// Wait for stop
	select {
	case <-ctx.Done():
		hs.Shutdown()
		if metricsSrv != nil {
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = metricsSrv.Shutdown(shCtx)
			cancel()
		}
		// graceful shutdown
		done := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			s.Stop()
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		closeStore(store, logger)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func newLogger(dev bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func newServices(cfg *config.Config, store repository.Store, users map[string]pkgcrypto.Credential, lim limiter.Limiter,
	arch archive.Store, log *zap.Logger, m *metrics.Metrics) grpcserver.Services {
	return grpcserver.Services{
		Auth:      service.NewAuthService(users, []byte(cfg.Auth.SigningKey), cfg.Auth.AccessTTL, lim),
		Clients:   service.NewClientService(store.Clients),
		Equipment: service.NewEquipmentService(store.Equipment, store.Clients, log, m),
		Orders:    service.NewOrderService(store.Orders, store.Equipment, log, m),
		Catalog:   service.NewCatalogService(store.Catalog),
		Export:    service.NewExportService(store.Equipment, arch, log, m),
		Admin:     service.NewAdminService(store.Wiper, log),
	}
}

func closeStore(store repository.Store, log *zap.Logger) {
	if store.Close == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		log.Warn("close store", zap.Error(err))
	}
}
