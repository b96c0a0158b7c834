package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"github.com/vancomm/minesweeper-gym/internal/app"
	"github.com/vancomm/minesweeper-gym/internal/config"
)

var (
	stdio    bool
	noDB     bool
	tokenFor string
)

func init() {
	flag.BoolVar(&stdio, "stdio", false, "serve JSON-line action calls on stdin/stdout instead of HTTP")
	flag.BoolVar(&noDB, "no-db", false, "do not record episodes even if a database is configured")
	flag.StringVar(&tokenFor, "token", "", "print a bearer token for the given subject and exit")
}

func main() {
	flag.Parse()

	var logger *slog.Logger
	if config.Development() {
		logger = slog.New(
			tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}),
		)
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(logger)
	if err := a.Init(ctx, !noDB && tokenFor == ""); err != nil {
		logger.Error("failed to start", slog.Any("error", err))
		os.Exit(1)
	}
	defer a.Close()

	if tokenFor != "" {
		token, err := a.Token(tokenFor)
		if err != nil {
			logger.Error("unable to issue token", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	var err error
	if stdio {
		err = a.ServeStdio(ctx, os.Stdin, os.Stdout)
	} else {
		err = a.Start(ctx, config.Port())
	}
	if err != nil && ctx.Err() == nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("shut down")
}
