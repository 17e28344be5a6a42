package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tphakala/skydash/internal/app"
	"github.com/tphakala/skydash/internal/buildinfo"
	"github.com/tphakala/skydash/internal/conf"
	"github.com/tphakala/skydash/internal/dashboard"
	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/preferences"
	"github.com/tphakala/skydash/internal/weather"
)

// Options selects what a one-shot report fetches and how it is printed.
type Options struct {
	City  string
	Lat   *float64
	Lon   *float64
	Units string // empty uses the configured default
	JSON  bool
}

// Command creates the command that prints a report for one city or position.
func Command(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	var (
		opts     Options
		lat, lon float64
	)

	cmd := &cobra.Command{
		Use:   "report [city]",
		Short: "Print current weather, forecast and alerts",
		Long:  "Fetch weather once for a city, or for --lat/--lon, and print it as text or JSON.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.City = args[0]
			}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
					return fmt.Errorf("--lat and --lon must be given together")
				}
				opts.Lat, opts.Lon = &lat, &lon
			}
			return Run(cmd.Context(), cmd.OutOrStdout(), settings, build, opts)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude in decimal degrees")
	cmd.Flags().StringVar(&opts.Units, "units", "", "metric or imperial, overrides the configured default for this report")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the dashboard snapshot as JSON")

	return cmd
}

// Run fetches once and writes the result to w. Stored preferences are not
// read or changed.
func Run(ctx context.Context, w io.Writer, settings *conf.Settings, build *buildinfo.Context, opts Options, appOpts ...app.Option) error {
	if opts.City != "" && opts.Lat != nil {
		return reportError("give either a city or coordinates, not both")
	}
	units := settings.Dashboard.DefaultUnits
	if opts.Units != "" {
		u, err := weather.ParseUnits(opts.Units)
		if err != nil {
			return errors.New(err).Component("report").Category(errors.CategoryValidation).Build()
		}
		units = string(u)
	}

	// The report addresses exactly one query, so the startup city only
	// applies when nothing else was requested.
	local := *settings
	if opts.City != "" || opts.Lat != nil {
		local.Dashboard.DefaultCity = ""
	}
	store := preferences.NewMemoryStore(preferences.Defaults(units, settings.Dashboard.DefaultTheme))
	appOpts = append([]app.Option{app.WithStore(store)}, appOpts...)

	a, err := app.New(&local, build, appOpts...)
	if err != nil {
		return err
	}
	defer a.Close()

	outcome := a.Start(ctx)
	switch {
	case opts.City != "":
		outcome = a.Dashboard.FetchByCity(ctx, opts.City)
	case opts.Lat != nil:
		outcome = a.Dashboard.FetchByGeolocation(ctx, dashboard.StaticLocator{
			Coordinates: weather.Coordinates{Latitude: *opts.Lat, Longitude: *opts.Lon},
		})
	case outcome == dashboard.OutcomeIdle:
		return reportError("no city given and no default city configured")
	}

	if outcome != dashboard.OutcomeRendered {
		var msgs []string
		for _, n := range a.Notices.Pending() {
			msgs = append(msgs, n.Message)
		}
		if len(msgs) == 0 {
			msgs = append(msgs, outcome.String())
		}
		return errors.Newf("%s", strings.Join(msgs, "; ")).
			Component("report").
			Category(errors.CategoryGeneric).
			Context("outcome", outcome.String()).
			Build()
	}

	snap := a.View.Snapshot()
	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	text, err := a.Views.RenderText(snap)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

func reportError(msg string) error {
	return errors.Newf("%s", msg).
		Component("report").
		Category(errors.CategoryValidation).
		Build()
}
