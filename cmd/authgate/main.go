package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authgate/internal/cli"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	app, err := cli.NewApp(ctx, cfg, cli.StdStreams())
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	_, err = app.Run(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, common.ErrCancelled):
		fmt.Println("\n\n[Program finished.]")
		return 0
	default:
		fmt.Fprintf(os.Stderr, "\nerror: %v\n", err)
		return 1
	}
}
