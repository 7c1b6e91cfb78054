package config

// Overrides holds values given on the command line. Zero values leave the
// loaded configuration untouched.
type Overrides struct {
	Debug       bool
	LogFile     string
	OutputDir   string
	OrphanFaces string
	Workers     int
	Scale       int
	NoFlip      bool
}

// apply applies CLI overrides to the config.
func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
	if o.OutputDir != "" {
		cfg.Split.OutputDir = o.OutputDir
	}
	if o.OrphanFaces != "" {
		cfg.Split.OrphanFaces = o.OrphanFaces
	}
	if o.Workers > 0 {
		cfg.Split.Workers = o.Workers
	}
	if o.Scale > 0 {
		cfg.Textures.Scale = o.Scale
	}
	if o.NoFlip {
		cfg.Textures.FlipVertical = false
	}
}
