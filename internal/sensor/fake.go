package sensor

import "errors"

// Reading is a single scripted measurement.
type Reading struct {
	Distance float64
	Err      error
}

// FakeSensor is a test double that returns scripted readings.
type FakeSensor struct {
	// Readings contains scripted values to return.
	// Each call to Sample() consumes the next reading.
	Readings []Reading

	// index tracks current position in Readings
	index int

	// Calls counts Sample invocations
	Calls int

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeSensor creates a FakeSensor with the given readings.
func NewFakeSensor(readings ...Reading) *FakeSensor {
	return &FakeSensor{Readings: readings}
}

// Constant creates a FakeSensor that always returns d.
func Constant(d float64) *FakeSensor {
	return NewFakeSensor(Reading{Distance: d})
}

// Sample returns the next scripted reading.
// If readings are exhausted, returns the last reading repeatedly.
func (f *FakeSensor) Sample() (float64, error) {
	f.Calls++

	if len(f.Readings) == 0 {
		return 0, errors.New("no readings configured")
	}

	r := f.Readings[f.index]
	if f.index < len(f.Readings)-1 {
		f.index++
	}
	return r.Distance, r.Err
}

// Set replaces the script with a single repeating reading.
func (f *FakeSensor) Set(r Reading) {
	f.Readings = []Reading{r}
	f.index = 0
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.Closed = true
	return nil
}
