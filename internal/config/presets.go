package config

// Presets are ready-made run descriptions. Each returns a fresh Config so a
// caller may tweak one without contaminating the table.
var presets = map[string]func() *Config{
	// One full tile of the urban template.
	"urban-short": func() *Config {
		cfg := DefaultConfig()
		cfg.Duration = 80
		cfg.Dt = 0.1
		return cfg
	},
	// Reference run length from the feasibility study.
	"urban": func() *Config {
		return DefaultConfig()
	},
	// A 20 minute commute.
	"commute": func() *Config {
		cfg := DefaultConfig()
		cfg.Duration = 1200
		return cfg
	},
	// Coarse step, trades tank-thermodynamics fidelity for speed.
	"coarse": func() *Config {
		cfg := DefaultConfig()
		cfg.Dt = 0.5
		return cfg
	},
	// Tank starts at the minimum working pressure instead of mid-band.
	"depleted-tank": func() *Config {
		cfg := DefaultConfig()
		cfg.Params.InitPressure = cfg.Params.PressureMin
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
