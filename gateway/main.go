package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaron8/microlink/gateway/bootstrap"
)

func main() {
	configPath := flag.String("config", os.Getenv("GATEWAY_CONFIG"), "path to an optional YAML config file")
	flag.Parse()

	bootstrap, err := bootstrap.NewBootstrap(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to create gateway bootstrap: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start gateway server: %v", err))
	}
}
