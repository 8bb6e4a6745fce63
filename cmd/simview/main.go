package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"simview"
)

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
		configPath string
		server     string
		verbose    bool
	)

	root := &cobra.Command{
		Use:          "simview",
		Short:        "Live viewer for a running space simulation feed",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
			})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			cfg := simview.DefaultConfig()
			if configPath != "" {
				var err error
				cfg, err = simview.LoadConfig(configPath)
				if err != nil {
					return err
				}
			}
			if server != "" {
				cfg.Server = server
			}

			return runViewer(cmd.Context(), cfg, logger)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	root.Flags().StringVarP(&server, "server", "s", "", "feed host:port (overrides config)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	return root.ExecuteContext(ctx)
}

func runViewer(ctx context.Context, cfg simview.Config, logger *log.Logger) error {
	client := simview.NewClient(cfg.FeedURL(), logger)
	client.Start(ctx)
	defer client.Close()

	game := simview.NewGame(client, logger)
	if cfg.Scenario != nil {
		scenario := cfg.Scenario
		game.OnSession = func(userID string) {
			go launchScenario(cfg.BaseURL(), scenario, userID, logger)
		}
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("simview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(&viewerGame{Game: game, ctx: ctx}); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return ctx.Err()
}

// viewerGame closes the window when the process context is cancelled, so
// Ctrl-C on the terminal behaves like closing the window.
type viewerGame struct {
	*simview.Game
	ctx context.Context
}

func (g *viewerGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	return g.Game.Update()
}

// launchScenario posts the configured scenario for the session the feed just
// handed out. Failures are logged rather than fatal: the viewer still shows
// whatever the feed sends.
func launchScenario(baseURL string, scenario *simview.Scenario, userID string, logger *log.Logger) {
	body, err := json.Marshal(scenario.LaunchRequest(userID))
	if err != nil {
		logger.Error("encode scenario", "err", err)
		return
	}

	httpClient := &http.Client{Timeout: 5 * time.Second}
	resp, err := httpClient.Post(baseURL+"/launch_simulation", "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Error("launch scenario", "err", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Error("launch scenario rejected", "status", resp.StatusCode)
		return
	}
	logger.Info("scenario launched", "user_id", userID)
}
