package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/tphakala/skydash/cmd"
	"github.com/tphakala/skydash/internal/buildinfo"
	"github.com/tphakala/skydash/internal/conf"
	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/logger"
)

// Set with -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal; anything else is worth a warning.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	settings, err := conf.Load(os.Getenv("SKYDASH_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		return 1
	}

	central, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error initializing logging: %v\n", err)
		return 1
	}
	logger.SetGlobal(central)
	defer func() { _ = central.Close() }()

	build := buildinfo.NewContext(version, buildDate)
	if err := cmd.RootCommand(settings, build).Execute(); err != nil {
		return 1
	}
	return 0
}
