package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/reflection"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/instill-ai/medical-backend/config"
	"github.com/instill-ai/medical-backend/pkg/cache"
	"github.com/instill-ai/medical-backend/pkg/constant"
	"github.com/instill-ai/medical-backend/pkg/decoder"
	"github.com/instill-ai/medical-backend/pkg/handler"
	"github.com/instill-ai/medical-backend/pkg/inference"
	"github.com/instill-ai/medical-backend/pkg/logger"
	"github.com/instill-ai/medical-backend/pkg/middleware"
	"github.com/instill-ai/medical-backend/pkg/service"

	custom_otel "github.com/instill-ai/medical-backend/pkg/logger/otel"
)

func main() {

	if err := config.Init(config.ParseConfigFlag()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, _ := logger.GetZapLogger(ctx)
	defer func() {
		// can't handle the error due to https://github.com/uber-go/zap/issues/880
		_ = logger.Sync()
	}()
	grpc_zap.ReplaceGrpcLoggerV2(logger)

	if config.Config.OTELCollector.Enable {
		tp, err := custom_otel.SetupTracing(ctx, constant.ServiceName,
			config.Config.OTELCollector.Host, config.Config.OTELCollector.Port)
		if err != nil {
			logger.Fatal(fmt.Sprintf("failed to set up tracing: %v", err))
		}
		defer func() {
			_ = tp.Shutdown(context.Background())
		}()
	}

	if err := inference.InitRuntime(config.Config.Runtime); err != nil {
		logger.Fatal(fmt.Sprintf("failed to initialise onnx runtime: %v", err))
	}
	defer func() {
		_ = inference.DestroyRuntime()
	}()

	registry, err := inference.LoadRegistry(ctx, config.Config.Models, config.Config.Runtime)
	if err != nil {
		logger.Fatal(fmt.Sprintf("failed to load models: %v", err))
	}
	defer registry.Close()

	var resultCache *cache.ResultCache
	if config.Config.Cache.Enabled {
		redisClient := redis.NewClient(&config.Config.Cache.Redis.RedisOptions)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn(fmt.Sprintf("result cache disabled, redis unreachable: %v", err))
		} else {
			resultCache = cache.NewResultCache(redisClient, config.Config.Cache.TTL)
		}
	}

	svc := service.NewService(
		registry,
		decoder.DICOM{},
		decoder.NIfTI{},
		resultCache,
		config.Config.Server.DisplaySize,
		config.Config.Server.InferenceTimeout,
	)
	h := handler.NewPublicHandler(svc, config.Config.Server.ScratchDir, config.Config.Server.MaxUploadSize)

	// Create tls based credential.
	var creds credentials.TransportCredentials
	tls := config.Config.Server.HTTPS.Cert != "" && config.Config.Server.HTTPS.Key != ""
	if tls {
		creds, err = credentials.NewServerTLSFromFile(config.Config.Server.HTTPS.Cert, config.Config.Server.HTTPS.Key)
		if err != nil {
			logger.Fatal(fmt.Sprintf("failed to create credentials: %v", err))
		}
	}

	grpcServerOpts := []grpc.ServerOption{
		grpc.StreamInterceptor(grpc_middleware.ChainStreamServer(
			grpc_zap.StreamServerInterceptor(logger, middleware.LoggingDecider()),
			grpc_recovery.StreamServerInterceptor(middleware.RecoveryInterceptorOpt()),
		)),
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_zap.UnaryServerInterceptor(logger, middleware.LoggingDecider()),
			grpc_recovery.UnaryServerInterceptor(middleware.RecoveryInterceptorOpt()),
		)),
	}
	if tls {
		grpcServerOpts = append(grpcServerOpts, grpc.Creds(creds))
	}

	grpcS := grpc.NewServer(grpcServerOpts...)
	healthS := health.NewServer()
	healthpb.RegisterHealthServer(grpcS, healthS)
	reflection.Register(grpcS)
	if svc.Ready() {
		healthS.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	} else {
		healthS.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	}

	publicMux := runtime.NewServeMux()
	if err := h.RegisterRoutes(publicMux); err != nil {
		logger.Fatal(err.Error())
	}
	privateMux := runtime.NewServeMux()
	if err := h.RegisterPrivateRoutes(privateMux); err != nil {
		logger.Fatal(err.Error())
	}

	publicHTTPServer := &http.Server{
		Addr:              fmt.Sprintf(":%v", config.Config.Server.PublicPort),
		Handler:           grpcHandlerFunc(grpcS, middleware.CORS(config.Config.Server.CORSOrigins, publicMux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	privateHTTPServer := &http.Server{
		Addr:              fmt.Sprintf(":%v", config.Config.Server.PrivatePort),
		Handler:           privateMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	quitSig := make(chan os.Signal, 1)
	errSig := make(chan error, 2)
	go func() {
		var err error
		if tls {
			err = publicHTTPServer.ListenAndServeTLS(config.Config.Server.HTTPS.Cert, config.Config.Server.HTTPS.Key)
		} else {
			err = publicHTTPServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errSig <- err
		}
	}()
	go func() {
		if err := privateHTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errSig <- err
		}
	}()

	logger.Info(fmt.Sprintf("serving models %v on :%d (private :%d)",
		registry.Names(), config.Config.Server.PublicPort, config.Config.Server.PrivatePort))

	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be catch, so don't need add it
	signal.Notify(quitSig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errSig:
		logger.Error(fmt.Sprintf("Fatal error: %v\n", err))
	case <-quitSig:
		logger.Info("Shutting down server...")
		healthS.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = publicHTTPServer.Shutdown(shutdownCtx)
		_ = privateHTTPServer.Shutdown(shutdownCtx)
		grpcS.GracefulStop()
	}
}
