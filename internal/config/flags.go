package config

import "flag"

// Flags holds the command-line overrides shared by all subcommands.
type Flags struct {
	fs *flag.FlagSet

	config       *string
	debug        *bool
	channel      *int
	bake         *bool
	compact      *bool
	addSmoothing *bool
	charset      *string
	logFile      *string
	format       *string
	depth        *int
}

// RegisterFlags defines the config flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:           fs,
		config:       fs.String("config", "", "Path to config file"),
		debug:        fs.Bool("debug", false, "Enable debug logging"),
		channel:      fs.Int("channel", 1, "Preferred UV channel id"),
		bake:         fs.Bool("bake", false, "Bake OBJECT_TRANS_MATRIX into vertices and drop it"),
		compact:      fs.Bool("compact", false, "Deduplicate UVs when writing FACE_MAP_CHANNEL"),
		addSmoothing: fs.Bool("add-smoothing", false, "Add smoothing group 1 to meshes without smoothing"),
		charset:      fs.String("encoding", "", "Charset for displaying names (default windows-1250)"),
		logFile:      fs.String("log-file", "", "Also write logs to this file"),
		format:       fs.String("format", "", "Report format: text or yaml"),
		depth:        fs.Int("depth", 0, "Maximum tree depth to print (0 = unlimited)"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// isSet reports whether the flag was given on the command line, so that a
// flag repeating its default still overrides the config file.
func (f *Flags) isSet(name string) bool {
	set := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if f.isSet("channel") {
		cfg.Conversion.UVChannel = int32(*f.channel)
	}
	if *f.bake {
		cfg.Conversion.BakeTransform = true
	}
	if *f.compact {
		cfg.Conversion.CompactUVs = true
	}
	if *f.addSmoothing {
		cfg.Conversion.AddSmoothing = true
	}
	if *f.charset != "" {
		cfg.Text.Charset = *f.charset
	}
	if *f.logFile != "" {
		cfg.Logging.LogFile = *f.logFile
	}
	if *f.format != "" {
		cfg.Analysis.Format = *f.format
	}
	if f.isSet("depth") {
		cfg.Analysis.MaxDepth = *f.depth
	}
}
