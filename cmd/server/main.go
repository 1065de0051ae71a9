package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-social-client/internal/config"
	"github.com/jrsteele09/go-social-client/internal/logging"
	"github.com/jrsteele09/go-social-client/server"
	"github.com/rs/zerolog/log"
)

// demoUsers are seeded in development so the CLI has someone to log in as
var demoUsers = []server.SeedUser{
	{Username: "alice", Password: "wonderland42", Name: "Alice"},
	{Username: "bob", Password: "builder4you", Name: "Bob"},
}

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(config.GetEnv("SOCIAL_CONFIG", ""))
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	logger := logging.New(c, os.Stderr)
	logging.SetGlobal(logger)
	displayAppname(c.GetAppName())

	handler, err := server.New(c, server.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	if c.GetEnv() == "DEV" {
		if _, err := handler.Seed(demoUsers...); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(httpServer) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
