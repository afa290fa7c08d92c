package config

import "github.com/spf13/pflag"

// Overrides are command-line values applied on top of the loaded file.
// Zero values leave the config untouched.
type Overrides struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	Format     string
	OutputDir  string
	Workers    int
}

// Register binds the override flags to fs.
func (o *Overrides) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigPath, "config", "c", "", "Path to config file")
	fs.BoolVar(&o.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&o.LogFile, "log-file", "", "Also log to this file (rotated)")
	fs.StringVarP(&o.Format, "format", "f", "", "Export format: obj or json")
	fs.StringVarP(&o.OutputDir, "out-dir", "o", "", "Directory for exported files")
	fs.IntVar(&o.Workers, "workers", 0, "Concurrent batch workers")
}

// apply applies CLI overrides to the config.
func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
	if o.Format != "" {
		cfg.Export.Format = o.Format
	}
	if o.OutputDir != "" {
		cfg.Export.Dir = o.OutputDir
	}
	if o.Workers > 0 {
		cfg.Batch.Workers = o.Workers
	}
}
