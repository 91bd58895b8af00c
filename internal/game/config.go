package game

import (
	"fmt"
	"time"
)

// Config holds the engine settings shared by every variant.
type Config struct {
	// StepDelay is slept between steps. It is not a cancellation point.
	StepDelay time.Duration
	// MinAlive is the battleable member floor for variants with the alive gate.
	MinAlive int
	// GrindMode stops regular maps on the cell before the boss.
	GrindMode bool
	// PreBoss lists the cells before the boss keyed "episode-field".
	PreBoss map[string][]int
	// CommonFormation is the formation used on regular maps. Zero picks the
	// formation favourable against the scouted enemy.
	CommonFormation int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		StepDelay:       time.Second,
		MinAlive:        3,
		CommonFormation: 6,
	}
}

// preBossCells returns the pre-boss cells of a regular map.
func (c Config) preBossCells(episode, field int) []int {
	return c.PreBoss[fmt.Sprintf("%d-%d", episode, field)]
}
