package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile      = flag.String("log-file", "", "Write logs to this file as well")
	flagViewDistance = flag.Float64("view-distance", -1, "Override streaming view distance (0..2)")
	flagSeed         = flag.Int64("seed", 0, "Override the seed of every planet")
	flagDumpConfig   = flag.String("dump-config", "", "Write the effective config to this path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// DumpPath returns the path passed via --dump-config, if any.
func DumpPath() string {
	return *flagDumpConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagViewDistance >= 0 {
		cfg.Streaming.ViewDistance = *flagViewDistance
	}
	if *flagSeed != 0 {
		for i := range cfg.Planets {
			cfg.Planets[i].Seed = *flagSeed
			cfg.Planets[i].UseRandomSeed = false
		}
	}
}
