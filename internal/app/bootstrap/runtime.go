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

	cacheadapter "github.com/mailagent/server/internal/adapters/cache"
	httpadapter "github.com/mailagent/server/internal/adapters/http"
	"github.com/mailagent/server/internal/adapters/llm"
	"github.com/mailagent/server/internal/adapters/mail"
	"github.com/mailagent/server/internal/adapters/postgres"
	"github.com/mailagent/server/internal/adapters/security"
	"github.com/mailagent/server/internal/adapters/worker"
	"github.com/mailagent/server/internal/application"
	"github.com/mailagent/server/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	retention  *worker.RetentionWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping mailagent server", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repos := postgres.NewRepositories(db)

	var loginGuard ports.LoginActivityStore
	closeRedis := func() {}
	if cfg.RedisURL != "" {
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		loginGuard = cacheadapter.NewRedisLoginActivityStore(redisClient, cfg.FailedLoginWindow)
		closeRedis = func() { _ = redisClient.Close() }
	} else {
		logger.Warn("redis not configured, tracking login failures in memory")
		loginGuard = cacheadapter.NewMemoryLoginActivityStore(cfg.FailedLoginWindow)
	}

	tokenSigner, err := security.NewJWTSigner(cfg.ServerSecret, cfg.AppName)
	if err != nil {
		_ = sqlDB.Close()
		closeRedis()
		return nil, fmt.Errorf("init jwt signer: %w", err)
	}
	cipher, err := security.NewAESCipher(cfg.ServerSecret)
	if err != nil {
		_ = sqlDB.Close()
		closeRedis()
		return nil, fmt.Errorf("init secret cipher: %w", err)
	}

	smtpSender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
		UserHost: cfg.SMTPUserHost,
	}, logger)
	var mailer ports.MailSender = smtpSender
	if cfg.SMTPHost == "" {
		logger.Warn("smtp not configured, platform mail will be logged instead of delivered")
		mailer = mail.NewLogSender(logger)
	}

	drafts, err := llm.NewGeminiClient(llm.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	}, logger)
	if err != nil {
		_ = sqlDB.Close()
		closeRedis()
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			TokenTTL:             cfg.TokenTTL,
			OTPTTL:               cfg.OTPTTL,
			ResetTokenTTL:        cfg.ResetTokenTTL,
			FailedLoginWindow:    cfg.FailedLoginWindow,
			FailedLoginThreshold: cfg.FailedLoginThreshold,
			ActivityRetention:    cfg.ActivityRetention,
			ClientURL:            cfg.ClientURL,
			AppName:              cfg.AppName,
		},
		Users:        repos.Users,
		EnvVars:      repos.EnvVars,
		EmailConfigs: repos.EmailConfigs,
		Chats:        repos.Chats,
		Emails:       repos.Emails,
		Activity:     repos.Activity,
		LoginGuard:   loginGuard,
		Hasher:       security.NewBcryptHasher(cfg.BcryptCost),
		TokenSigner:  tokenSigner,
		Cipher:       cipher,
		Mailer:       mailer,
		UserMail:     smtpSender,
		Drafts:       drafts,
		Logger:       logger,
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
		_ = sqlDB.Close()
		closeRedis()
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	retention := worker.NewRetentionWorker(
		logger,
		repos.Users,
		repos.Activity,
		cfg.RetentionSweep,
		cfg.ActivityRetention,
	)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		retention:  retention,
		cleanupFn: func(ctx context.Context) {
			closeRedis()
			_ = sqlDB.Close()
		},
	}, nil
}

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

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("retention worker started")
	err := r.retention.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	return nil
}
