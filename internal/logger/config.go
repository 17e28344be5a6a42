package logger

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string         `yaml:"level" json:"level"`           // default level for all modules
	Timezone   string         `yaml:"timezone" json:"timezone"`     // "Local", "UTC" or an IANA name
	Console    *ConsoleOutput `yaml:"console" json:"console"`       // console output configuration
	FileOutput *FileOutput    `yaml:"fileoutput" json:"fileoutput"` // file output configuration
	// ModuleLevels overrides the level for individual modules, e.g. weather: debug
	ModuleLevels map[string]string `yaml:"modulelevels" json:"modulelevels"`
}

// ConsoleOutput is human-readable text on stdout.
type ConsoleOutput struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Level   string `yaml:"level" json:"level"`
	Color   bool   `yaml:"color" json:"color"` // colorized output via tint
}

// FileOutput is JSON lines appended to a file.
type FileOutput struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Level   string `yaml:"level" json:"level"`
}

const (
	DefaultLogLevel = "info"
	DefaultLogPath  = "logs/skydash.log"
)

// applyConfigDefaults fills nil sections so an older config without
// explicit outputs still logs to the console.
func applyConfigDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = DefaultLogLevel
	}
	if cfg.Console == nil {
		cfg.Console = &ConsoleOutput{Enabled: true, Level: cfg.Level}
	}
	if cfg.Console.Level == "" {
		cfg.Console.Level = cfg.Level
	}
	if cfg.FileOutput != nil && cfg.FileOutput.Enabled {
		if cfg.FileOutput.Path == "" {
			cfg.FileOutput.Path = DefaultLogPath
		}
		if cfg.FileOutput.Level == "" {
			cfg.FileOutput.Level = cfg.Level
		}
	}
}
