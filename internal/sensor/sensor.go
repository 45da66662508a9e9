// Package sensor provides ultrasonic distance sampling with hardware abstraction.
// The real implementation drives an HC-SR04 through the Linux GPIO character
// device. The fake implementation allows testing without hardware.
package sensor

import (
	"errors"
	"time"
)

// Sentinel errors returned by Sample. The sitting timer treats both as a
// transient fault.
var (
	ErrNoEcho     = errors.New("sensor: no echo")
	ErrOutOfRange = errors.New("sensor: reading out of range")
)

// Sensor samples a distance in centimetres.
type Sensor interface {
	Sample() (float64, error)

	// Close releases GPIO resources.
	Close() error
}

const (
	// speedOfSound in cm/s at ~20°C
	speedOfSound = 34300.0

	// MaxRange is the farthest distance the HC-SR04 reports reliably.
	MaxRange = 400.0

	// EchoTimeout bounds a single measurement (round trip of MaxRange plus margin).
	EchoTimeout = 30 * time.Millisecond

	triggerPulse = 10 * time.Microsecond
)

// Default pin definitions (BCM numbering)
const (
	DefaultPinTrigger = 5
	DefaultPinEcho    = 6
)

// EchoToDistance converts the width of an echo pulse to a distance in cm.
func EchoToDistance(width time.Duration) (float64, error) {
	if width <= 0 {
		return 0, ErrNoEcho
	}
	cm := width.Seconds() * speedOfSound / 2
	if cm > MaxRange {
		return 0, ErrOutOfRange
	}
	return cm, nil
}
