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

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/handler/tui"
	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/service"
	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/storage/inmemory"
	"github.com/MyNameIsWhaaat/commentpanel/internal/config"
	"github.com/MyNameIsWhaaat/commentpanel/internal/logging"

	commenthttp "github.com/MyNameIsWhaaat/commentpanel/internal/comment/handler/http"
)

var (
	configPath string
	verbose    bool
	addr       string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "commentpanel",
	Short: "An in-memory comment thread panel",
	Long: `commentpanel shows one comment thread panel: post comments, reply to them,
star, delete, sort and toggle timestamps. Everything lives in memory and is
gone when the program exits.

Run without arguments to open the terminal panel.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = zapcore.DebugLevel.String()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the panel in the terminal",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the panel as a web page",
	Long: `Serves the panel as an HTML page with a JSON mirror under /api.
The panel is bound to loopback unless server.host says otherwise.`,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.host and server.port")

	rootCmd.AddCommand(tuiCmd, serveCmd)
}

func newPanel() service.PanelService {
	return service.New(inmemory.New(), logger,
		service.WithSortOrder(model.SortOrder(cfg.Panel.DefaultSort)),
		service.WithShowTimestamps(cfg.Panel.ShowTimestamps),
		service.WithMaxTextLength(cfg.Panel.MaxTextLength),
	)
}

func runTUI(cmd *cobra.Command, args []string) error {
	var err error
	logger, err = logging.NewForTUI(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, newPanel(),
		tui.WithLogger(logger),
		tui.WithTimestampLayout(cfg.Panel.TimestampLayout),
	)
}

func runServe(cmd *cobra.Command, args []string) error {
	var err error
	logger, err = logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}

	h := commenthttp.New(newPanel(),
		commenthttp.WithLogger(logger),
		commenthttp.WithTimestampLayout(cfg.Panel.TimestampLayout),
	)

	listen := cfg.Server.Addr()
	if addr != "" {
		listen = addr
	}
	server := &http.Server{
		Addr:         listen,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("address", listen))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
