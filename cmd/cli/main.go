package main

import (
	"context"
	"log"
	"os"

	"github.com/duabook/duabook/internal/buildinfo"
	"github.com/duabook/duabook/internal/client/cli"
	"github.com/duabook/duabook/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
