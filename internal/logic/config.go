package logic

import "time"

// Config holds the fixed timing and distance constants of the device.
// Production code always uses DefaultConfig; tests shrink the durations.
type Config struct {
	TimerDuration      time.Duration
	DebounceDuration   time.Duration
	LongPressThreshold time.Duration

	DistanceInterval   time.Duration
	CalibrationSamples int
	CalibrationPause   time.Duration
	SittingTolerance   float64 // cm above the calibrated baseline still counted as sitting
	FarDistance        float64 // cm beyond which the user has left the desk

	SirenPeriod        time.Duration
	PaginationWindow   time.Duration
	ComplementDuration time.Duration
}

// timerDurationMin is the default reminder period in minutes.
const timerDurationMin = 45

// DefaultConfig returns the device constants.
func DefaultConfig() Config {
	return Config{
		TimerDuration:      timerDurationMin * time.Minute,
		DebounceDuration:   50 * time.Millisecond,
		LongPressThreshold: time.Second,

		DistanceInterval:   500 * time.Millisecond,
		CalibrationSamples: 20,
		CalibrationPause:   100 * time.Millisecond,
		SittingTolerance:   20,
		FarDistance:        200,

		SirenPeriod:        250 * time.Millisecond,
		PaginationWindow:   2 * time.Second,
		ComplementDuration: 5 * time.Second,
	}
}

// interval gates periodic work: Due reports true when at least every has
// passed since the last run, and records now as the last run.
type interval struct {
	every   time.Duration
	last    time.Time
	started bool
}

func (iv *interval) Due(now time.Time) bool {
	if iv.started && now.Sub(iv.last) < iv.every {
		return false
	}
	iv.last = now
	iv.started = true
	return true
}

// Start records now as the last run without reporting it as due.
func (iv *interval) Start(now time.Time) {
	iv.last = now
	iv.started = true
}

func (iv *interval) Reset() {
	iv.started = false
}
