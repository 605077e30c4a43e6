package config

const (
	defaultSoundsDir         = "~/.local/share/audiomate/sounds"
	defaultStateDir          = "~/.local/share/audiomate/state"
	defaultLogDir            = "~/.local/share/audiomate/logs"
	defaultTickIntervalMS    = 50
	defaultReadyAttempts     = 200
	defaultAssetCategory     = "web"
	defaultPlayChance        = 1.0
	defaultScene             = "default"
	defaultContainingAtom    = "Person"
	defaultCollider          = "VaginaTrigger"
	defaultSampleRate        = 48000
	defaultBufferMS          = 100
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultContainingAtomCat = "People"
)

// DefaultColliders lists the trigger colliders offered when none are configured.
func DefaultColliders() []string {
	return []string{
		"LipTrigger",
		"MouthTrigger",
		"ThroatTrigger",
		"lNippleTrigger",
		"rNippleTrigger",
		"LabiaTrigger",
		"VaginaTrigger",
		"DeepVaginaTrigger",
		"DeeperVaginaTrigger",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SoundsDir: defaultSoundsDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Engine: Engine{
			TickIntervalMS:    defaultTickIntervalMS,
			ReadyAttempts:     defaultReadyAttempts,
			AssetCategory:     defaultAssetCategory,
			DefaultPlayChance: defaultPlayChance,
		},
		Host: Host{
			Scene:          defaultScene,
			ContainingAtom: defaultContainingAtom,
			Atoms: []Atom{
				{
					UID:      defaultContainingAtom,
					Category: defaultContainingAtomCat,
					Type:     "Person",
					Nodes:    []string{"HeadAudioSource"},
				},
			},
		},
		Triggers: Triggers{
			Colliders:       DefaultColliders(),
			DefaultCollider: defaultCollider,
		},
		Audio: Audio{
			SampleRate: defaultSampleRate,
			BufferMS:   defaultBufferMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
