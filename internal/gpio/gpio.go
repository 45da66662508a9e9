// Package gpio provides button input and LED output with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/sweeney/standup-mate/internal/logic"

// ButtonReader reads the push button level.
type ButtonReader interface {
	// Pressed returns the logical button state.
	// The raw line is active low: raw 0 = pressed.
	Pressed() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// LEDWriter drives the status LEDs.
type LEDWriter interface {
	// Set lights the LEDs whose entry is true.
	Set(leds [logic.LEDCount]bool) error

	// Close switches the LEDs off and releases GPIO resources.
	Close() error
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinButton = 17
	DefaultPinLED1   = 22
	DefaultPinLED2   = 23
	DefaultPinLED3   = 24
)
