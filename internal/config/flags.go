package config

import "flag"

// Flags holds the command-line overrides shared by every scenetool command.
type Flags struct {
	Config     string
	Debug      bool
	BaseDir    string
	NoValidate bool
	LogFile    string
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.BaseDir, "base-dir", "", "Directory for relative buffer and image URIs")
	fs.BoolVar(&f.NoValidate, "no-validate", false, "Skip node graph validation after import")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.BaseDir != "" {
		cfg.Import.BaseDir = f.BaseDir
	}
	if f.NoValidate {
		cfg.Import.Validate = false
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
