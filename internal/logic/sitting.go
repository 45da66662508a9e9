package logic

import (
	"math"
	"time"
)

// TimerSignals reports what a SittingTimer.Update call did.
type TimerSignals struct {
	// Calibrated is true on the tick calibration completed.
	Calibrated bool
	// AlertRaised is true on the tick the sitting time reached the timer duration.
	AlertRaised bool
	// Returned is true when the user sat back down after standing up for an alert.
	Returned bool
	// Events lists posture transitions in the order they happened.
	Events []EventType
}

// SittingTimer classifies the user's posture from distance samples and
// counts the time spent sitting.
type SittingTimer struct {
	cfg    Config
	sensor DistanceSensor

	sitting     bool
	goingOut    bool
	calibrating bool

	sittingDistance float64
	currentDistance float64
	sittingElapsed  time.Duration

	lastTick time.Time
	ticked   bool
	sampling interval

	calibSampling   interval
	calibIterations int
	calibValid      int
	calibSum        float64

	alertActive    bool
	sirenOn        bool
	awaitingReturn bool
	lastLedSiren   time.Time
	ledNum         int

	faults int
}

// NewSittingTimer creates a timer that starts in calibration.
func NewSittingTimer(cfg Config, sensor DistanceSensor) *SittingTimer {
	return &SittingTimer{
		cfg:           cfg,
		sensor:        sensor,
		calibrating:   true,
		sampling:      interval{every: cfg.DistanceInterval},
		calibSampling: interval{every: cfg.CalibrationPause},
	}
}

// Update advances the timer to now, sampling the sensor when due.
func (t *SittingTimer) Update(now time.Time) TimerSignals {
	var sig TimerSignals

	var elapsed time.Duration
	if t.ticked && now.After(t.lastTick) {
		elapsed = now.Sub(t.lastTick)
	}
	t.lastTick = now
	t.ticked = true

	if t.calibrating {
		t.calibrate(now, &sig)
		return sig
	}

	if t.sitting && !t.goingOut {
		t.sittingElapsed += elapsed
	}

	if t.sampling.Due(now) {
		t.classify(&sig)
	}

	if t.sitting && !t.alertActive && t.sittingElapsed >= t.cfg.TimerDuration {
		t.alertActive = true
		t.sirenOn = true
		t.lastLedSiren = now
		t.ledNum = 0
		sig.AlertRaised = true
		sig.Events = append(sig.Events, EventAlert)
	}

	if t.sirenOn && now.Sub(t.lastLedSiren) >= t.cfg.SirenPeriod {
		t.ledNum = (t.ledNum + 1) % LEDCount
		t.lastLedSiren = now
	}

	return sig
}

func (t *SittingTimer) calibrate(now time.Time, sig *TimerSignals) {
	if !t.calibSampling.Due(now) {
		return
	}

	t.calibIterations++
	if d, ok := t.read(); ok {
		t.calibSum += d
		t.calibValid++
	}
	if t.calibIterations < t.cfg.CalibrationSamples {
		return
	}

	if t.calibValid == 0 {
		// Nothing usable in this run, start over
		t.calibIterations = 0
		t.calibSum = 0
		return
	}

	t.sittingDistance = t.calibSum / float64(t.calibValid)
	t.currentDistance = t.sittingDistance
	t.calibrating = false
	t.sitting = true
	t.goingOut = false
	t.sittingElapsed = 0
	t.sampling.Start(now)

	sig.Calibrated = true
	sig.Events = append(sig.Events, EventCalibrated)
}

func (t *SittingTimer) classify(sig *TimerSignals) {
	d, ok := t.read()
	if !ok {
		return
	}
	t.currentDistance = d

	sitting := d <= t.sittingDistance+t.cfg.SittingTolerance
	goingOut := !sitting && d > t.cfg.FarDistance
	wasSitting, wasOut := t.sitting, t.goingOut
	t.sitting, t.goingOut = sitting, goingOut

	switch {
	case sitting && !wasSitting:
		t.sittingElapsed = 0
		sig.Events = append(sig.Events, EventSitDown)
		if t.awaitingReturn {
			t.clearAlert()
			sig.Returned = true
			sig.Events = append(sig.Events, EventComplement)
		}
	case !sitting && wasSitting:
		if goingOut {
			sig.Events = append(sig.Events, EventLeave)
		} else {
			sig.Events = append(sig.Events, EventStandUp)
		}
		// Standing up is the response the alert asks for, so the siren stops
		// here. The alert itself holds until the user sits back down or
		// presses the button.
		if t.alertActive {
			t.sirenOn = false
			t.awaitingReturn = true
		}
	case goingOut && !wasOut:
		sig.Events = append(sig.Events, EventLeave)
	}
}

// read samples the sensor. Failed or non-finite readings count as faults.
func (t *SittingTimer) read() (float64, bool) {
	d, err := t.sensor.Sample()
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		t.faults++
		return 0, false
	}
	return d, true
}

// Acknowledge resets the sitting time and silences the alert.
func (t *SittingTimer) Acknowledge(now time.Time) {
	t.sittingElapsed = 0
	t.clearAlert()
}

// Recalibrate restarts calibration from scratch.
func (t *SittingTimer) Recalibrate(now time.Time) {
	t.calibrating = true
	t.calibIterations = 0
	t.calibValid = 0
	t.calibSum = 0
	t.calibSampling.Reset()
	t.sitting = false
	t.goingOut = false
	t.sittingElapsed = 0
	t.clearAlert()
}

func (t *SittingTimer) clearAlert() {
	t.alertActive = false
	t.sirenOn = false
	t.awaitingReturn = false
	t.ledNum = 0
}

// Posture returns the current classification.
func (t *SittingTimer) Posture() Posture {
	switch {
	case t.calibrating:
		return PostureUnknown
	case t.goingOut:
		return PostureAway
	case t.sitting:
		return PostureSitting
	}
	return PostureStanding
}

// LEDs returns the status LED pattern: calibration progress while
// calibrating, a chase while the siren runs, otherwise the used share of the
// timer while sitting.
func (t *SittingTimer) LEDs() [LEDCount]bool {
	var leds [LEDCount]bool
	lit := 0

	switch {
	case t.calibrating:
		lit = int(t.CalibrationProgress() * LEDCount)
	case t.sirenOn:
		leds[t.ledNum] = true
		return leds
	case t.sitting:
		used := float64(t.sittingElapsed) / float64(t.cfg.TimerDuration)
		lit = 1 + int(used*LEDCount)
	}

	if lit > LEDCount {
		lit = LEDCount
	}
	for i := 0; i < lit; i++ {
		leds[i] = true
	}
	return leds
}

// SittingTime returns the whole seconds spent sitting since the last reset.
func (t *SittingTimer) SittingTime() int {
	return int(t.sittingElapsed / time.Second)
}

// Remaining returns the time left before the alert, never negative.
func (t *SittingTimer) Remaining() time.Duration {
	r := t.cfg.TimerDuration - t.sittingElapsed
	if r < 0 {
		return 0
	}
	return r
}

// CalibrationProgress returns the completed fraction of the calibration run.
func (t *SittingTimer) CalibrationProgress() float64 {
	if !t.calibrating {
		return 1
	}
	if t.cfg.CalibrationSamples <= 0 {
		return 0
	}
	return float64(t.calibIterations) / float64(t.cfg.CalibrationSamples)
}

// IsSitting reports whether the last valid sample classified the user as sitting.
func (t *SittingTimer) IsSitting() bool { return t.sitting }

// GoingOut reports whether the user has left the sensed area.
func (t *SittingTimer) GoingOut() bool { return t.goingOut }

// Calibrating reports whether calibration is running.
func (t *SittingTimer) Calibrating() bool { return t.calibrating }

// SittingDistance returns the calibrated baseline.
func (t *SittingTimer) SittingDistance() float64 { return t.sittingDistance }

// CurrentDistance returns the last valid reading.
func (t *SittingTimer) CurrentDistance() float64 { return t.currentDistance }

// AlertActive reports whether the stand alert is pending acknowledgement.
func (t *SittingTimer) AlertActive() bool { return t.alertActive }

// SirenOn reports whether the LED siren is running.
func (t *SittingTimer) SirenOn() bool { return t.sirenOn }

// Faults returns the number of failed sensor reads.
func (t *SittingTimer) Faults() int { return t.faults }
