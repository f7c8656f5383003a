package core

import (
	"strconv"

	"github.com/gobuffalo/envy"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Importer ImporterConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int
}

// ImporterConfiguration is used to configure the asset importer
type ImporterConfiguration struct {
	// ArchivePath points at the resource archive models are
	// streamed from
	ArchivePath string

	// FallbackMaterial applies the built-in material to models
	// imported without one
	FallbackMaterial bool
}

// ConfigFromEnv builds a Configuration from the environment, reading
// QUOLL_FPS, QUOLL_ARCHIVE and QUOLL_FALLBACK_MATERIAL. Unset or
// unparsable variables keep their defaults.
func ConfigFromEnv() Configuration {
	cfg := Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
		},
		Importer: ImporterConfiguration{
			FallbackMaterial: true,
		},
	}

	if fps, err := strconv.Atoi(envy.Get("QUOLL_FPS", "60")); err == nil {
		cfg.Time.FramesPerSecond = fps
	}
	cfg.Importer.ArchivePath = envy.Get("QUOLL_ARCHIVE", "")
	if fallback, err := strconv.ParseBool(envy.Get("QUOLL_FALLBACK_MATERIAL", "true")); err == nil {
		cfg.Importer.FallbackMaterial = fallback
	}
	return cfg
}
