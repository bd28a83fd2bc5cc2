package main

import (
	"context"
	"log"
	"os"

	"github.com/fieldlog/fieldlog/internal/buildinfo"
	"github.com/fieldlog/fieldlog/internal/cli"
	"github.com/fieldlog/fieldlog/internal/config"
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
	defer app.Close()

	app.Run(ctx)

}
