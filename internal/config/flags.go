package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagTileset  = flag.String("tileset", "", "Tileset JSON file")
	flagMap      = flag.String("map", "", "Map JSON file")
	flagSeed     = flag.Int64("seed", -1, "Auto-tiling random seed")
	flagSnapshot = flag.String("snapshot", "", "Snapshot output file")
	flagNoSchema = flag.Bool("no-schema", false, "Skip JSON schema validation")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTileset != "" {
		cfg.Map.Tileset = *flagTileset
	}
	if *flagMap != "" {
		cfg.Map.Path = *flagMap
	}
	if *flagSeed >= 0 {
		cfg.Tiling.Seed = uint64(*flagSeed)
	}
	if *flagSnapshot != "" {
		cfg.Snapshot.Path = *flagSnapshot
	}
	if *flagNoSchema {
		cfg.Map.Validate = false
	}
}
