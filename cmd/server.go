package cmd

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

	"github.com/ziadkadry99/guilddash/internal/dashboard"
	"github.com/ziadkadry99/guilddash/internal/db"
	"github.com/ziadkadry99/guilddash/internal/notifications"
	"github.com/ziadkadry99/guilddash/internal/server"
)

var (
	serverPort     int
	serverAllowAll bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dashboard web server",
	Long:  `Starts the guilddash web server: the guild list, the live per-guild dashboards, their websocket feed and the notification history API.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "port to listen on (overrides config)")
	serverCmd.Flags().BoolVar(&serverAllowAll, "allow-all-origins", false, "allow all CORS origins (overrides config)")
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serverPort > 0 {
		cfg.Port = serverPort
	}
	if serverAllowAll {
		cfg.AllowAllOrigins = true
	}

	database, err := db.OpenDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := notifications.NewStore(database)
	var opts []notifications.DispatcherOption
	if cfg.NotifyWebhookURL != "" {
		opts = append(opts, notifications.WithWebhook(cfg.NotifyWebhookURL))
	}
	dispatcher := notifications.NewDispatcher(store, opts...)

	client := newClient(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := dashboard.NewManager(ctx, dashboard.ManagerOptions{
		Backend:     client,
		Dispatcher:  dispatcher,
		Interval:    cfg.RefreshInterval,
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	defer sessions.Close()

	srv := server.New(server.Config{
		Port:     cfg.Port,
		DataDir:  cfg.DataDir,
		AllowAll: cfg.AllowAllOrigins,
	}, database)
	dashboard.New(client, sessions).RegisterRoutes(srv.Router())
	notifications.RegisterRoutes(srv.Router(), store, cfg.NotificationLimit)

	if cfg.DefaultGuildID != "" {
		sessions.Session(cfg.DefaultGuildID)
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "guilddash server %s starting on port %d\n", Version, cfg.Port)
	fmt.Fprintf(os.Stderr, "  Bot API: %s\n", client.BaseURL())
	fmt.Fprintf(os.Stderr, "  Refresh: every %s\n", cfg.RefreshInterval)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
	if cfg.NotifyWebhookURL != "" {
		fmt.Fprintln(os.Stderr, "  Webhook: enabled")
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
