package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yaron8/microlink/linksim/bootstrap"
	"github.com/yaron8/microlink/linksim/config"
	"github.com/yaron8/microlink/linksim/simulator"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "linksim: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("linksim", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "print one snapshot as JSON and exit")
	serve := fs.Bool("serve", false, "serve /metrics and /health over HTTP")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.NewConfig()
	sim := simulator.NewSimulator(cfg.Seed, simulator.DefaultParams())

	fmt.Fprintf(stdout, "Link simulator initialized with seed: %d\n", sim.Seed())

	switch {
	case *jsonOut:
		return simulator.WriteJSON(stdout, sim.Generate(time.Now()))
	case *serve:
		b, err := bootstrap.NewBootstrap(cfg, sim)
		if err != nil {
			return err
		}
		return b.Start(ctx)
	default:
		return monitor(ctx, stdout, sim, cfg.Interval)
	}
}

// monitor prints a report every interval until ctx is done
func monitor(ctx context.Context, stdout io.Writer, sim *simulator.Simulator, interval time.Duration) error {
	fmt.Fprintln(stdout, "Starting microwave link simulation...")
	fmt.Fprintln(stdout, "Press Ctrl+C to stop")
	fmt.Fprintln(stdout)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := simulator.WriteReport(stdout, sim.Generate(time.Now())); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
