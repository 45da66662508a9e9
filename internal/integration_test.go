package internal

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/standup-mate/internal/display"
	"github.com/sweeney/standup-mate/internal/gpio"
	"github.com/sweeney/standup-mate/internal/logic"
	"github.com/sweeney/standup-mate/internal/mqtt"
	"github.com/sweeney/standup-mate/internal/sensor"
	"github.com/sweeney/standup-mate/internal/status"
)

var startTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// desk wires the fakes together the same way the daemon's main loop does.
type desk struct {
	t        *testing.T
	button   *gpio.FakeButton
	sensor   *sensor.FakeSensor
	surface  *display.FakeSurface
	leds     *gpio.FakeLEDs
	pub      *mqtt.FakePublisher
	tracker  *status.Tracker
	device   *logic.Device
	renderer *display.Renderer
	at       time.Duration
}

func newDesk(t *testing.T) *desk {
	t.Helper()
	cfg := logic.DefaultConfig()
	cfg.TimerDuration = time.Minute
	cfg.CalibrationSamples = 5

	d := &desk{
		t:       t,
		button:  gpio.NewFakeButton([]bool{false}),
		sensor:  sensor.Constant(60),
		surface: display.NewFakeSurface(),
		leds:    gpio.NewFakeLEDs(),
		pub:     mqtt.NewFakePublisher(),
		tracker: status.NewTracker(startTime, status.Config{TimerMin: 1}),
	}
	d.device = logic.NewDevice(cfg, d.button, d.sensor, startTime)
	d.renderer = display.NewRenderer(d.surface)
	return d
}

// run simulates the main loop every 100ms for dur.
func (d *desk) run(dur time.Duration) logic.Frame {
	d.t.Helper()
	var frame logic.Frame
	end := d.at + dur
	for ; d.at < end; d.at += 100 * time.Millisecond {
		var events []logic.Event
		frame, events = d.device.Tick(startTime.Add(d.at))

		for _, event := range events {
			if err := d.pub.Publish(event); err != nil {
				d.t.Fatalf("at %v: publish error: %v", d.at, err)
			}
		}
		if _, err := d.renderer.Render(frame); err != nil {
			d.t.Fatalf("at %v: render error: %v", d.at, err)
		}
		if err := d.leds.Set(frame.LEDs); err != nil {
			d.t.Fatalf("at %v: led error: %v", d.at, err)
		}
		d.tracker.Update(frame, d.device.EventCountsSnapshot())
	}
	return frame
}

func (d *desk) hold(pressed bool) {
	d.button.Samples = []bool{pressed}
	d.button.Reset()
}

// press holds the button for hold, then releases it for 200ms.
func (d *desk) press(hold time.Duration) logic.Frame {
	d.hold(true)
	d.run(hold)
	d.hold(false)
	return d.run(200 * time.Millisecond)
}

func (d *desk) screenContains(text string) bool {
	for _, s := range d.surface.Texts() {
		if strings.Contains(s, text) {
			return true
		}
	}
	return false
}

// TestIntegrationAlertCycle follows a full reminder cycle from calibration
// through the alert, standing up and sitting back down.
func TestIntegrationAlertCycle(t *testing.T) {
	d := newDesk(t)

	f := d.run(time.Second)
	if f.Page != logic.PageRemainingTime {
		t.Fatalf("expected REMAINING_TIME after calibration, got %s", f.Page)
	}
	if !d.screenContains("Remaining") {
		t.Errorf("expected remaining time on screen, got %v", d.surface.Texts())
	}

	f = d.press(200 * time.Millisecond)
	if f.Page != logic.PageRemainingBar {
		t.Fatalf("expected REMAINING_BAR after short press, got %s", f.Page)
	}
	if _, ok := d.surface.Find("bar"); !ok {
		t.Error("expected progress bar on screen")
	}
	if _, ok := d.surface.Find("pagination"); !ok {
		t.Error("expected pagination dots after a page change")
	}

	f = d.run(time.Minute)
	if f.Page != logic.PageStand || !f.SirenOn {
		t.Fatalf("expected STAND page with siren, got %s siren=%v", f.Page, f.SirenOn)
	}
	if !d.screenContains("Press to dismiss") {
		t.Errorf("expected dismiss hint on screen, got %v", d.surface.Texts())
	}

	d.sensor.Set(sensor.Reading{Distance: 130})
	f = d.run(time.Second)
	if f.Page != logic.PageStand || f.SirenOn {
		t.Fatalf("expected silent STAND page while standing, got %s siren=%v", f.Page, f.SirenOn)
	}
	if !d.screenContains("Sit back down") {
		t.Errorf("expected return hint on screen, got %v", d.surface.Texts())
	}
	if d.leds.Last() != ([logic.LEDCount]bool{}) {
		t.Errorf("expected LEDs dark while standing, got %v", d.leds.Last())
	}

	d.sensor.Set(sensor.Reading{Distance: 60})
	f = d.run(time.Second)
	if f.Page != logic.PageComplement {
		t.Fatalf("expected COMPLEMENT page, got %s", f.Page)
	}
	if !d.screenContains("Well done!") {
		t.Errorf("expected complement on screen, got %v", d.surface.Texts())
	}

	f = d.run(5 * time.Second)
	if f.Page != logic.PageRemainingBar {
		t.Errorf("expected REMAINING_BAR restored, got %s", f.Page)
	}
	if f.Alert {
		t.Error("alert should be cleared")
	}
	if f.SittingTime > 6 {
		t.Errorf("expected timer restarted, got %ds", f.SittingTime)
	}

	want := []logic.EventType{
		logic.EventCalibrated,
		logic.EventAlert,
		logic.EventStandUp,
		logic.EventSitDown,
		logic.EventComplement,
	}
	got := d.pub.EventTypes()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

// TestIntegrationPayloads checks the JSON that reaches the broker.
func TestIntegrationPayloads(t *testing.T) {
	d := newDesk(t)
	d.run(time.Second)
	d.run(time.Minute)

	var alert *mqtt.PosturePayload
	for _, raw := range d.pub.Payloads {
		var p mqtt.Payload
		if err := json.Unmarshal(raw, &p); err != nil {
			t.Fatalf("invalid JSON %s: %v", raw, err)
		}
		if p.Posture.Event == "ALERT" {
			alert = &p.Posture
		}
	}
	if alert == nil {
		t.Fatal("expected ALERT payload")
	}
	if alert.Page != "STAND" {
		t.Errorf("expected page STAND, got %s", alert.Page)
	}
	if alert.State != "SITTING" {
		t.Errorf("expected state SITTING, got %s", alert.State)
	}
	if alert.SittingSeconds != 60 {
		t.Errorf("expected sitting_seconds 60, got %d", alert.SittingSeconds)
	}
	if alert.DistanceCm != 60 {
		t.Errorf("expected distance_cm 60, got %v", alert.DistanceCm)
	}
}

// TestIntegrationAcknowledge dismisses the alert with the button instead of
// standing up.
func TestIntegrationAcknowledge(t *testing.T) {
	d := newDesk(t)
	d.run(time.Second)
	d.run(time.Minute)

	f := d.press(200 * time.Millisecond)
	if f.Page != logic.PageRemainingTime {
		t.Errorf("expected REMAINING_TIME after acknowledge, got %s", f.Page)
	}
	if f.Alert || f.SirenOn {
		t.Error("alert should be cleared by the button")
	}

	snap := d.tracker.Snapshot()
	if snap.Counts.Acknowledges != 1 {
		t.Errorf("expected 1 acknowledge, got %d", snap.Counts.Acknowledges)
	}
	if snap.Counts.Alerts != 1 {
		t.Errorf("expected 1 alert, got %d", snap.Counts.Alerts)
	}
}

// TestIntegrationRecalibrate holds the button to take a new baseline after
// the chair moved.
func TestIntegrationRecalibrate(t *testing.T) {
	d := newDesk(t)
	d.run(time.Second)

	d.sensor.Set(sensor.Reading{Distance: 90})
	d.hold(true)
	f := d.run(1200 * time.Millisecond)
	if f.Page != logic.PageCalibration {
		t.Fatalf("expected CALIBRATION during long press, got %s", f.Page)
	}
	if !d.screenContains("Calibrating") {
		t.Errorf("expected calibration page on screen, got %v", d.surface.Texts())
	}
	d.hold(false)
	f = d.run(time.Second)

	if f.Page != logic.PageRemainingTime {
		t.Errorf("expected REMAINING_TIME after recalibration, got %s", f.Page)
	}
	if f.SittingDistance != 90 {
		t.Errorf("expected baseline 90, got %v", f.SittingDistance)
	}
	if f.Posture != logic.PostureSitting {
		t.Errorf("expected SITTING at the new baseline, got %s", f.Posture)
	}
}

// TestIntegrationStatusJSON checks the tracker snapshot served over HTTP.
func TestIntegrationStatusJSON(t *testing.T) {
	d := newDesk(t)
	d.run(time.Second)
	d.sensor.Set(sensor.Reading{Distance: 250})
	d.run(time.Second)

	snap := d.tracker.Snapshot()
	var sj status.StatusJSON
	if err := json.Unmarshal(status.FormatJSON(snap), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Posture != "AWAY" {
		t.Errorf("expected AWAY, got %s", sj.Status.Posture)
	}
	if sj.Status.Counts.Leaves != 1 {
		t.Errorf("expected 1 leave, got %d", sj.Status.Counts.Leaves)
	}
	if !sj.Status.Ready {
		t.Error("expected ready after calibration")
	}
}
