package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/nemukerja/nemukerja-tui/internal/devserver"
	"github.com/nemukerja/nemukerja-tui/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("nemukerja-devserver", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var (
		addr     string
		logLevel string
	)
	fs.StringVar(&addr, "addr", ":5000", "Listen address")
	fs.StringVar(&logLevel, "log-level", "info", "Log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	log := logging.NewWithWriter(os.Stderr, logLevel, "nemukerja-devserver")

	srv := devserver.New(devserver.WithLogger(log))
	demo, err := srv.Seed()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "applicant session: NEMUKERJA_SESSION=%s\n", demo.ApplicantSession)
	fmt.Fprintf(os.Stdout, "company session:   NEMUKERJA_SESSION=%s\n", demo.CompanySession)

	log.Info().Str("addr", addr).Msg("listening")
	if err := srv.Run(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
