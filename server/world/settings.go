package world

// Settings controls which per-tick sweeps run and their batch sizes. Every
// sweep is individually disableable.
type Settings struct {
	// LoadPerTick and GenPerTick bound work per tick; zero falls back to
	// the package defaults.
	LoadPerTick int
	GenPerTick  int

	EnableLoadSweep       bool
	EnableLifecycleSweep  bool
	EnableGenerationSweep bool
	EnableSimulationSweep bool

	// WithLight/WithBackground enable the optional per-pixel buffers.
	WithLight      bool
	WithBackground bool

	ScreenWidth, ScreenHeight int32
}

// DefaultSettings returns the settings used when a Config doesn't override
// them: every sweep enabled, spec-default batch sizes, no optional buffers.
func DefaultSettings() Settings {
	return Settings{
		LoadPerTick:           LoadPerTick,
		GenPerTick:            GenPerTick,
		EnableLoadSweep:       true,
		EnableLifecycleSweep:  true,
		EnableGenerationSweep: true,
		EnableSimulationSweep: true,
		ScreenWidth:           640,
		ScreenHeight:          360,
	}
}

func (s Settings) withDefaults() Settings {
	if s.LoadPerTick <= 0 {
		s.LoadPerTick = LoadPerTick
	}
	if s.GenPerTick <= 0 {
		s.GenPerTick = GenPerTick
	}
	if s.ScreenWidth <= 0 {
		s.ScreenWidth = 640
	}
	if s.ScreenHeight <= 0 {
		s.ScreenHeight = 360
	}
	return s
}
