package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/skydash/cmd/config"
	"github.com/tphakala/skydash/cmd/report"
	"github.com/tphakala/skydash/cmd/serve"
	"github.com/tphakala/skydash/internal/buildinfo"
	"github.com/tphakala/skydash/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "skydash",
		Short:        "SkyDash weather dashboard",
		Version:      build.GetVersion(),
		SilenceUsage: true,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(
		serve.Command(settings, build),
		report.Command(settings, build),
		config.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initialize(settings)
	}

	return rootCmd
}

// initialize normalizes flag values and validates the merged settings
// before any subcommand runs.
func initialize(settings *conf.Settings) error {
	settings.Main.Locale = strings.ToLower(strings.TrimSpace(settings.Main.Locale))
	settings.Dashboard.DefaultUnits = strings.ToLower(strings.TrimSpace(settings.Dashboard.DefaultUnits))
	if err := conf.ValidateSettings(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Enable debug output")
	flags.StringVar(&settings.Main.Locale, "locale", settings.Main.Locale, "Language for month and weekday names (en, fi, de, fr, es, sv)")
	flags.StringVar(&settings.Main.Timezone, "timezone", settings.Main.Timezone, "Zone for displayed times, \"Local\" or an IANA name")
	flags.StringVar(&settings.Dashboard.DefaultUnits, "units", settings.Dashboard.DefaultUnits, "Units used until a preference is stored (metric or imperial)")

	for key, name := range map[string]string{
		"debug":                  "debug",
		"main.locale":            "locale",
		"main.timezone":          "timezone",
		"dashboard.defaultunits": "units",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}

	return nil
}
