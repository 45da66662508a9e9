package logic

import "time"

// Device runs the three state machines in a fixed order on every tick:
// switch, navigation, sitting timer.
type Device struct {
	cfg    Config
	button ButtonReader

	sw    *Switch
	nav   *Navigator
	timer *SittingTimer

	startTime      time.Time
	lastTelemetry  time.Time
	lastPagination bool
	counts         EventCounts
	frame          Frame
}

// NewDevice creates a device reading the given button and distance sensor.
// The startTime is used for calculating uptime in telemetry.
func NewDevice(cfg Config, button ButtonReader, sensor DistanceSensor, startTime time.Time) *Device {
	return &Device{
		cfg:           cfg,
		button:        button,
		sw:            NewSwitch(cfg.DebounceDuration, cfg.LongPressThreshold),
		nav:           NewNavigator(cfg.PaginationWindow, cfg.ComplementDuration),
		timer:         NewSittingTimer(cfg, sensor),
		startTime:     startTime,
		lastTelemetry: startTime,
	}
}

// Tick advances the device to now and returns the frame to render together
// with the events that happened during this tick.
func (d *Device) Tick(now time.Time) (Frame, []Event) {
	if pressed, err := d.button.Pressed(); err != nil {
		d.counts.ButtonFaults++
	} else {
		d.sw.Process(pressed, now)
	}

	var types []EventType

	nav := d.nav.Update(now, d.sw.CheckToggling(), d.sw.CheckLongPress())
	changed := nav.Changed
	if nav.Acknowledged {
		d.timer.Acknowledge(now)
		types = append(types, EventAcknowledge)
	}
	if nav.Recalibrate {
		d.timer.Recalibrate(now)
		types = append(types, EventRecalibrate)
	}

	sig := d.timer.Update(now)
	types = append(types, sig.Events...)
	if sig.Calibrated && d.nav.FinishCalibration(now) {
		changed = true
	}
	if sig.AlertRaised && d.nav.ShowStand(now) {
		changed = true
	}
	if sig.Returned && d.nav.ShowComplement(now) {
		changed = true
	}

	showPagination := d.nav.ShowPagination(now)
	redraw := changed || showPagination != d.lastPagination
	d.lastPagination = showPagination

	d.frame = d.buildFrame(now, redraw, showPagination)

	var events []Event
	for _, typ := range types {
		d.count(typ)
		events = append(events, Event{
			Timestamp:   now,
			Type:        typ,
			Posture:     d.frame.Posture,
			Page:        d.frame.Page,
			SittingTime: d.frame.SittingTime,
			Distance:    d.frame.Distance,
		})
	}
	d.counts.SensorFaults = d.timer.Faults()

	return d.frame, events
}

func (d *Device) buildFrame(now time.Time, redraw, showPagination bool) Frame {
	remaining := d.timer.Remaining()
	return Frame{
		Time:             now,
		Page:             d.nav.CurrentPage(),
		Redraw:           redraw,
		ShowPagination:   showPagination,
		Posture:          d.timer.Posture(),
		Calibrating:      d.timer.Calibrating(),
		CalibProgress:    d.timer.CalibrationProgress(),
		Alert:            d.timer.AlertActive(),
		SirenOn:          d.timer.SirenOn(),
		SittingTime:      d.timer.SittingTime(),
		Remaining:        remaining,
		RemainingPercent: float64(remaining) / float64(d.cfg.TimerDuration),
		Distance:         d.timer.CurrentDistance(),
		SittingDistance:  d.timer.SittingDistance(),
		LEDs:             d.timer.LEDs(),
	}
}

func (d *Device) count(typ EventType) {
	switch typ {
	case EventSitDown:
		d.counts.SitDowns++
	case EventStandUp:
		d.counts.StandUps++
	case EventLeave:
		d.counts.Leaves++
	case EventAlert:
		d.counts.Alerts++
	case EventAcknowledge:
		d.counts.Acknowledges++
	case EventComplement:
		d.counts.Complements++
	}
}

// Frame returns the frame built by the last Tick.
func (d *Device) Frame() Frame {
	return d.frame
}

// EventCountsSnapshot returns a copy of the event counts.
func (d *Device) EventCountsSnapshot() EventCounts {
	return d.counts
}

// CheckTelemetry returns telemetry data if the interval has elapsed since
// the last telemetry (or startup). Returns nil if the interval has not
// elapsed, or if interval is <= 0 (disabled).
func (d *Device) CheckTelemetry(now time.Time, interval time.Duration) *TelemetryData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(d.lastTelemetry) < interval {
		return nil
	}

	d.lastTelemetry = now
	return &TelemetryData{
		Timestamp: now,
		Uptime:    now.Sub(d.startTime),
		Frame:     d.frame,
		Counts:    d.counts,
	}
}
