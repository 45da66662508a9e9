//go:build !linux

package sensor

import "errors"

// HCSR04 is not available on non-Linux platforms.
type HCSR04 struct{}

// NewHCSR04 returns an error on non-Linux platforms.
func NewHCSR04(chipName string, triggerPin, echoPin int) (*HCSR04, error) {
	return nil, errors.New("sensor: not supported on this platform (requires Linux)")
}

// Sample is not implemented on non-Linux platforms.
func (s *HCSR04) Sample() (float64, error) {
	return 0, errors.New("sensor: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *HCSR04) Close() error {
	return nil
}
