package main

import (
	"context"
	"log"

	"github.com/ysemenov/coinkeeper/internal/client/cli"
	"github.com/ysemenov/coinkeeper/internal/client/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
