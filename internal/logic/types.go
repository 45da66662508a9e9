// Package logic contains the pure state machines of the posture reminder:
// switch debouncing, page navigation and the sitting timer.
// This package has NO hardware dependencies (no GPIO, I2C, MQTT, or time.Sleep).
// Time is always injectable via time.Time parameters; the distance sensor and
// the button are injected as interfaces.
package logic

import "time"

// LEDCount is the number of status LEDs on the device.
const LEDCount = 3

// DistanceSensor returns a distance measurement in centimetres.
// Implementations return an error (or NaN) when no valid echo was read.
type DistanceSensor interface {
	Sample() (float64, error)
}

// ButtonReader returns the raw level of the push button (true = pressed).
type ButtonReader interface {
	Pressed() (bool, error)
}

// PageID identifies a display page.
type PageID int

// Normal pages are cycled by short presses. Special pages lie outside the
// cycled range and are only entered through the sitting timer.
const (
	PageSetup         PageID = 0
	PageRemainingTime PageID = 1
	PageRemainingBar  PageID = 2

	PageCalibration PageID = 4
	PageStand       PageID = 5
	PageComplement  PageID = 6
)

// MaxPage is the number of normal pages.
const MaxPage = 3

// IsNormal reports whether p is one of the cyclable pages.
func (p PageID) IsNormal() bool {
	return p >= 0 && p < MaxPage
}

func (p PageID) String() string {
	switch p {
	case PageSetup:
		return "SETUP"
	case PageRemainingTime:
		return "REMAINING_TIME"
	case PageRemainingBar:
		return "REMAINING_BAR"
	case PageCalibration:
		return "CALIBRATION"
	case PageStand:
		return "STAND"
	case PageComplement:
		return "COMPLEMENT"
	}
	return "UNKNOWN"
}

// Posture is the classified position of the user.
type Posture string

const (
	PostureUnknown  Posture = "UNKNOWN"
	PostureSitting  Posture = "SITTING"
	PostureStanding Posture = "STANDING"
	PostureAway     Posture = "AWAY"
)

// EventType represents a posture or navigation transition.
type EventType string

const (
	EventCalibrated  EventType = "CALIBRATED"
	EventRecalibrate EventType = "RECALIBRATE"
	EventSitDown     EventType = "SIT_DOWN"
	EventStandUp     EventType = "STAND_UP"
	EventLeave       EventType = "LEAVE"
	EventAlert       EventType = "ALERT"
	EventAcknowledge EventType = "ACKNOWLEDGE"
	EventComplement  EventType = "COMPLEMENT"
)

// Event represents a transition to be published.
type Event struct {
	Timestamp   time.Time
	Type        EventType
	Posture     Posture
	Page        PageID
	SittingTime int     // seconds
	Distance    float64 // last valid reading, cm
}

// Frame is everything the renderer and the LEDs need for one tick.
type Frame struct {
	Time           time.Time
	Page           PageID
	Redraw         bool // page or pagination visibility changed this tick
	ShowPagination bool

	Posture       Posture
	Calibrating   bool
	CalibProgress float64 // 0..1
	Alert         bool
	SirenOn       bool

	SittingTime      int // seconds
	Remaining        time.Duration
	RemainingPercent float64 // remaining fraction of the timer, 0..1

	Distance        float64
	SittingDistance float64

	LEDs [LEDCount]bool
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	SitDowns     int
	StandUps     int
	Leaves       int
	Alerts       int
	Acknowledges int
	Complements  int
	SensorFaults int
	ButtonFaults int
}

// TelemetryData contains information for a telemetry event.
type TelemetryData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Frame     Frame
	Counts    EventCounts
}
