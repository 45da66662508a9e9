package gpio

import (
	"errors"

	"github.com/sweeney/standup-mate/internal/logic"
)

// FakeButton is a test double that returns scripted button levels.
type FakeButton struct {
	// Samples contains scripted levels to return.
	// Each call to Pressed() consumes the next sample.
	Samples []bool

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Pressed()
	ReadError error
}

// NewFakeButton creates a FakeButton with the given samples.
func NewFakeButton(samples []bool) *FakeButton {
	return &FakeButton{Samples: samples}
}

// Pressed returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeButton) Pressed() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the button as closed.
func (f *FakeButton) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the button to the beginning of samples.
func (f *FakeButton) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeLEDs records every LED pattern written.
type FakeLEDs struct {
	// Writes contains all patterns passed to Set.
	Writes [][logic.LEDCount]bool

	// SetError, if set, will be returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeLEDs creates a FakeLEDs for testing.
func NewFakeLEDs() *FakeLEDs {
	return &FakeLEDs{}
}

// Set records the pattern.
func (f *FakeLEDs) Set(leds [logic.LEDCount]bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Writes = append(f.Writes, leds)
	return nil
}

// Last returns the most recent pattern, all off if nothing was written.
func (f *FakeLEDs) Last() [logic.LEDCount]bool {
	if len(f.Writes) == 0 {
		return [logic.LEDCount]bool{}
	}
	return f.Writes[len(f.Writes)-1]
}

// Close marks the LEDs as closed.
func (f *FakeLEDs) Close() error {
	f.Closed = true
	return nil
}
