package main

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/example/microblog/internal/platform/auth"
	"github.com/example/microblog/internal/platform/db"
	"github.com/example/microblog/internal/platform/events"
	"github.com/example/microblog/internal/platform/httpserver"
	"github.com/example/microblog/internal/platform/logging"
	"github.com/example/microblog/internal/platform/natsconn"
	"github.com/example/microblog/internal/platform/run"
	"github.com/example/microblog/services/comments/internal/config"
	"github.com/example/microblog/services/comments/internal/grpcapi"
	"github.com/example/microblog/services/comments/internal/handlers"
	"github.com/example/microblog/services/comments/internal/service"
	"github.com/example/microblog/services/comments/internal/store"
)

func main() {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	base, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		panic(err)
	}
	log := logging.ForService(base, cfg.App.ServiceName)
	defer func() { _ = log.Sync() }()

	comments, closeStore, err := openStore(context.Background(), cfg, log)
	if err != nil {
		log.Error("comment store unavailable", zap.String("backend", cfg.StoreBackend), zap.Error(err))
		_ = log.Sync()
		run.Exit(1)
	}

	var writerOpts []service.WriterOption
	drainEvents := func(context.Context) error { return nil }
	if cfg.EventsEnabled {
		nc, js, err := natsconn.JetStream(natsconn.Options{URL: cfg.NatsURL, Name: cfg.App.ServiceName})
		if err != nil {
			// comments stay writable without the event stream
			log.Error("nats connect, events disabled", zap.Error(err))
		} else {
			drainEvents = func(context.Context) error { return nc.Drain() }
			if err := events.EnsureStream(js); err != nil {
				log.Warn("ensure comments stream", zap.Error(err))
			}
			writerOpts = append(writerOpts, service.WithEvents(events.New(js, log)))
		}
	}

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, comment creation will reject every token (development only)")
	}
	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}

	writer := service.NewWriter(comments, log, writerOpts...)
	reader := service.NewReader(comments, service.Limits{Default: cfg.DefaultPageSize, Max: cfg.MaxPageSize}, log)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: comments.Ping, Logger: log})
	handlers.Register(r, writer, reader, verifier, log)

	srv := httpserver.New(httpserver.Options{Addr: cfg.App.HTTP.Addr, ServiceName: cfg.App.ServiceName, Logger: log, Router: r})

	// gRPC server
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Error("grpc listen", zap.Error(err))
		_ = log.Sync()
		run.Exit(1)
	}
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(grpcapi.UnaryLogger(log)))
	grpcapi.RegisterCommentServiceServer(grpcSrv, &grpcapi.CommentService{Writer: writer, Reader: reader})
	reflection.Register(grpcSrv)

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		errCh := make(chan error, 2)
		go func() {
			log.Info("grpc server starting", zap.String("addr", cfg.GRPCAddr))
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("grpc serve: %w", err)
			}
		}()
		go func() { errCh <- srv.Start() }()

		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		}
	})

	runner.Graceful(
		srv.Shutdown,
		func(ctx context.Context) error {
			stopped := make(chan struct{})
			go func() {
				grpcSrv.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-ctx.Done():
				grpcSrv.Stop()
			}
			return nil
		},
		drainEvents,
	)

	closeStore()
	log.Info("exit", zap.Int("code", code))
	_ = log.Sync()
	run.Exit(code)
}

// openStore selects the CommentStore backend named by STORE_BACKEND.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (store.CommentStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgresCommentStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		log.Info("comment store: postgres")
		return pg, pool.Close, nil

	case config.BackendBadger:
		bdb, err := store.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("comment store: badger", zap.String("path", cfg.BadgerPath))
		return store.NewBadgerCommentStore(bdb), func() {
			if err := bdb.Close(); err != nil {
				log.Warn("close badger", zap.Error(err))
			}
		}, nil

	default:
		log.Warn("using in-memory comment store (development only)")
		return store.NewInMemoryCommentStore(), func() {}, nil
	}
}
