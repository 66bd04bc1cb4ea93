package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/yaron8/microlink/linksim/config"
	"github.com/yaron8/microlink/linksim/service"
	"github.com/yaron8/microlink/linksim/simulator"
	"github.com/yaron8/microlink/logi"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type Bootstrap struct {
	apiServer *service.APIServer
}

func NewBootstrap(cfg *config.Config, sim *simulator.Simulator) (*Bootstrap, error) {
	logger, err := logi.NewLog(&logi.Config{LogFileName: "linksim.log", Console: true})
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	return &Bootstrap{
		apiServer: service.NewAPIServer(cfg, sim, logger),
	}, nil
}

// Start serves until ctx is cancelled
func (b *Bootstrap) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(b.apiServer.Start)

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()

		return b.apiServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
