// Package config loads demo tunables from the environment. The engine
// itself takes plain struct fields; env parsing is a binary concern.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Demo holds the tunable interaction constants for the demo binary. The
// defaults are a reasonable feel, not canonical values.
type Demo struct {
	FPS              int     `env:"SNAPKIT_FPS" envDefault:"60"`
	AngularFrequency float64 `env:"SNAPKIT_FREQUENCY" envDefault:"7"`
	DampingRatio     float64 `env:"SNAPKIT_DAMPING" envDefault:"0.85"`
	FlickThreshold   float64 `env:"SNAPKIT_FLICK" envDefault:"40"`
	Overscroll       float64 `env:"SNAPKIT_OVERSCROLL" envDefault:"3"`
	ReducedMotion    bool    `env:"SNAPKIT_REDUCED_MOTION" envDefault:"false"`
}

// Load parses the demo configuration from environment variables.
func Load() (Demo, error) {
	var d Demo
	if err := env.Parse(&d); err != nil {
		return Demo{}, fmt.Errorf("parse env: %w", err)
	}
	return d, nil
}
