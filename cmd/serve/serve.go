package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/skydash/internal/app"
	"github.com/tphakala/skydash/internal/buildinfo"
	"github.com/tphakala/skydash/internal/conf"
	"github.com/tphakala/skydash/internal/httpcontroller"
	"github.com/tphakala/skydash/internal/logger"
)

// Command creates the command that runs the web dashboard.
func Command(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the weather dashboard web server",
		Long:  "Serve the weather dashboard page and its JSON API until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Run(ctx, settings, build)
		},
	}

	// Set up flags specific to the 'serve' command
	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// Run starts the dashboard and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, settings *conf.Settings, build *buildinfo.Context, opts ...app.Option) error {
	a, err := app.New(settings, build, opts...)
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.Log.Module("serve")
	outcome := a.Start(ctx)
	log.Info("dashboard started",
		logger.String("version", build.GetVersion()),
		logger.String("outcome", outcome.String()),
		logger.String("default_city", settings.Dashboard.DefaultCity))

	srv, err := httpcontroller.New(settings, httpcontroller.Deps{
		Dashboard: a.Dashboard,
		View:      a.View,
		Notices:   a.Notices,
		Views:     a.Views,
		Metrics:   a.Metrics,
		Logger:    a.Log.Module("http"),
	})
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Host, "host", settings.WebServer.Host, "Listen address, empty for all interfaces")
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", settings.WebServer.Port, "Listen port")
	cmd.Flags().BoolVar(&settings.WebServer.Metrics, "metrics", settings.WebServer.Metrics, "Expose Prometheus metrics on /metrics")
	cmd.Flags().StringVar(&settings.Dashboard.DefaultCity, "city", settings.Dashboard.DefaultCity, "City fetched on startup")

	for key, name := range map[string]string{
		"webserver.host":        "host",
		"webserver.port":        "port",
		"webserver.metrics":     "metrics",
		"dashboard.defaultcity": "city",
	} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}

	return nil
}
