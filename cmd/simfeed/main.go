package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"simview/feed"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		addr    string
		verbose bool
	)

	root := &cobra.Command{
		Use:          "simfeed",
		Short:        "Space simulation feed server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
			})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
			return serve(cmd.Context(), addr, logger)
		},
	}
	root.Flags().StringVarP(&addr, "addr", "a", ":5000", "listen address")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	return root.ExecuteContext(ctx)
}

func serve(ctx context.Context, addr string, logger *log.Logger) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: feed.New(logger).Router(),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("feed listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("feed stopped")
	return ctx.Err()
}
