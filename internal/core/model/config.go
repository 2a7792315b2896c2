package model

import (
	"errors"
	"strconv"
	"strings"
)

// Interval bounds in seconds.
const (
	MinSeconds = 5
	MaxSeconds = 300

	DefaultWorkSeconds = 30
	DefaultRestSeconds = 15
)

var (
	ErrWorkOutOfRange = errors.New("work seconds out of range")
	ErrRestOutOfRange = errors.New("rest seconds out of range")
)

// TimerConfig holds the configured interval lengths of a timer session.
type TimerConfig struct {
	WorkSeconds int
	RestSeconds int
}

// DefaultTimerConfig returns the 30s work / 15s rest defaults.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkSeconds: DefaultWorkSeconds,
		RestSeconds: DefaultRestSeconds,
	}
}

// Validate reports the first field outside [MinSeconds, MaxSeconds].
func (config TimerConfig) Validate() error {
	if !inRange(config.WorkSeconds) {
		return ErrWorkOutOfRange
	}
	if !inRange(config.RestSeconds) {
		return ErrRestOutOfRange
	}
	return nil
}

// ParseTimerConfig converts raw form input into a TimerConfig.
// Blank, non-numeric or out-of-range fields fall back to their defaults.
func ParseTimerConfig(work, rest string) TimerConfig {
	return TimerConfig{
		WorkSeconds: parseSeconds(work, DefaultWorkSeconds),
		RestSeconds: parseSeconds(rest, DefaultRestSeconds),
	}
}

func parseSeconds(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || !inRange(parsed) {
		return fallback
	}
	return parsed
}

func inRange(seconds int) bool {
	return seconds >= MinSeconds && seconds <= MaxSeconds
}
