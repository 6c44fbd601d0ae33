package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clouddrive/api/driveproto"
	"clouddrive/internal/MinIO"
	"clouddrive/internal/blobstore"
	"clouddrive/internal/config"
	"clouddrive/internal/handler/authHandler"
	"clouddrive/internal/handler/billingHandler"
	"clouddrive/internal/handler/contentHandler"
	"clouddrive/internal/handler/transferHandler"
	"clouddrive/internal/handler/userHandler"
	"clouddrive/internal/repository/BlackListRepo"
	"clouddrive/internal/repository/planCache"
	"clouddrive/internal/repository/refreshToken"
	"clouddrive/internal/repository/uploadSession"
	"clouddrive/internal/service/accessService"
	"clouddrive/internal/service/authService"
	"clouddrive/internal/service/contentService"
	"clouddrive/internal/service/janitor"
	"clouddrive/internal/service/planService"
	"clouddrive/internal/service/quotaService"
	"clouddrive/internal/service/subscriptionService"
	"clouddrive/internal/service/transferService"
	"clouddrive/internal/service/userService"
	"clouddrive/pkg/database/redis"
	"clouddrive/pkg/logger"
	"clouddrive/pkg/metrics"
	"clouddrive/pkg/middleware"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func main() {
	ctx := context.Background()

	ctx, err := logger.New(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.GetLogger(ctx)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer st.close()

	blobs, err := openBlobs(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open blob storage", zap.Error(err))
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	quota := quotaService.New(st.storages)
	guard := accessService.New(st.storages, st.contents)
	plans := planService.New(st.plans, planCache.New(redisClient), cfg.Plans.CacheTTL, cfg.Plans.DefaultMax)
	if err := plans.Seed(ctx); err != nil {
		log.Fatal("Failed to seed plans", zap.Error(err))
	}

	auth := authService.New(
		authService.Repositories{Users: st.users, Storages: st.storages, Contents: st.contents, Tx: st.tx},
		plans, cfg.JWTSecret, refreshToken.New(redisClient), BlackListRepo.NewBlackListRepo(redisClient),
	)
	contents := contentService.New(st.contents, guard, quota, st.tx, blobs)
	transfer := transferService.New(st.contents, uploadSession.New(redisClient), guard, quota, contents, st.tx, blobs, m,
		transferService.Options{
			ChunkSize:   cfg.Transfer.ChunkSize,
			IdleTimeout: cfg.Transfer.UploadIdleTimeout,
			UploadTTL:   cfg.Transfer.UploadTTL,
		})
	subscriptions := subscriptionService.New(st.codes, st.plans, st.subscriptions, guard, quota, st.tx)
	users := userService.New(st.users, guard)
	jan := janitor.New(transfer, contents, m, janitor.Config{
		Interval:       cfg.Transfer.JanitorInterval,
		UploadTTL:      cfg.Transfer.UploadTTL,
		TrashRetention: cfg.Transfer.TrashRetention,
	})

	grpcServer := grpc.NewServer(middleware.ServerOptions(auth, driveproto.PublicMethods(), log, m)...)
	driveproto.RegisterAuthServiceServer(grpcServer, authHandler.New(auth))
	driveproto.RegisterUsersServiceServer(grpcServer, userHandler.New(users))
	driveproto.RegisterContentsServiceServer(grpcServer, contentHandler.New(contents))
	driveproto.RegisterFileTransferServiceServer(grpcServer, transferHandler.New(transfer))
	driveproto.RegisterCodesServiceServer(grpcServer, billingHandler.NewCodes(subscriptions))
	driveproto.RegisterPlansServiceServer(grpcServer, billingHandler.NewPlans(plans))
	driveproto.RegisterSubscriptionsServiceServer(grpcServer, billingHandler.NewSubscriptions(subscriptions))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatal("failed to listen", zap.Error(err))
	}

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.MetricsPort),
		Handler:           metrics.Handler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server started", zap.String("port", cfg.GRPCPort))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		log.Info("metrics server started", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return jan.Run(logger.WithLogger(gctx, log.With(zap.String("component", "janitor"))))
	})
	g.Go(func() error {
		<-gctx.Done()
		grpcServer.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server failed", zap.Error(err))
	}
	log.Info("server stopped")
}

func openBlobs(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	if cfg.Storage.BlobDriver == "disk" {
		return blobstore.NewDiskStore(cfg.Storage.BlobRoot)
	}
	return MinIO.New(ctx, cfg.MinIO)
}
