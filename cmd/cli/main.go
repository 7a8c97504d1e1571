package main

import (
	"context"
	"log"

	"github.com/nannuru/publisher/internal/client/cli"
	"github.com/nannuru/publisher/internal/client/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
