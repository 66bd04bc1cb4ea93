package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yaron8/microlink/gateway/acquirer"
	"github.com/yaron8/microlink/gateway/config"
	"github.com/yaron8/microlink/gateway/publisher"
	"github.com/yaron8/microlink/gateway/service"
	"github.com/yaron8/microlink/logi"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Bootstrap struct {
	config    *config.Config
	logger    *slog.Logger
	publisher publisher.Publisher
	apiServer *service.APIServer
}

// NewBootstrap loads the configuration (configPath may be empty) and wires
// the gateway components.
func NewBootstrap(configPath string) (*Bootstrap, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level, err := logi.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logi.NewLog(&logi.Config{
		LogDir:      cfg.Log.Dir,
		LogFileName: "gateway.log",
		Level:       level,
		Console:     cfg.Log.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires the gateway from an already loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Bootstrap, error) {
	source, err := acquirer.NewSource(cfg.Simulator)
	if err != nil {
		return nil, err
	}

	pub := newPublisher(cfg.Redis, logger)

	return &Bootstrap{
		config:    cfg,
		logger:    logger,
		publisher: pub,
		apiServer: service.NewAPIServer(
			cfg,
			acquirer.NewAcquirer(source, cfg.Simulator.Timeout(), logger),
			pub,
			logger,
		),
	}, nil
}

func newPublisher(cfg config.RedisConfig, logger *slog.Logger) publisher.Publisher {
	if !cfg.Enabled() {
		logger.Info("Redis publishing disabled")
		return publisher.Nop{}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: "", // no password set
		DB:       0,  // use default DB
		Protocol: 2,
	})

	logger.Info("Publishing metrics to Redis", "addr", cfg.Addr(), "channel", cfg.Channel)
	return publisher.NewRedisPublisher(redisClient, cfg.Channel)
}

// Start serves until ctx is cancelled, then shuts the server down gracefully.
func (b *Bootstrap) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(b.apiServer.Start)

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()

		return b.apiServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	if closeErr := b.publisher.Close(); closeErr != nil {
		b.logger.Warn("Error closing publisher", "error", closeErr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
