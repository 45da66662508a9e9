package status

import (
	"encoding/json"
	"math"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event             string     `json:"event,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	Page              string     `json:"page"`
	Posture           string     `json:"posture"`
	Ready             bool       `json:"ready"`
	Alert             bool       `json:"alert"`
	Siren             bool       `json:"siren"`
	SittingSeconds    int        `json:"sitting_seconds"`
	RemainingSeconds  int64      `json:"remaining_seconds"`
	DistanceCm        float64    `json:"distance_cm"`
	SittingDistanceCm float64    `json:"sitting_distance_cm"`
	LEDs              []bool     `json:"leds"`
	UptimeSeconds     int64      `json:"uptime_seconds"`
	StartTime         string     `json:"start_time"`
	Timestamp         string     `json:"timestamp"`
	MQTT              MQTTStatus `json:"mqtt"`
	Counts            CountsJSON `json:"event_counts"`
	Config            ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	SitDowns     int `json:"sit_downs"`
	StandUps     int `json:"stand_ups"`
	Leaves       int `json:"leaves"`
	Alerts       int `json:"alerts"`
	Acknowledges int `json:"acknowledges"`
	Complements  int `json:"complements"`
	SensorFaults int `json:"sensor_faults"`
	ButtonFaults int `json:"button_faults"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	LongPressMs int64  `json:"long_press_ms"`
	TimerMin    int64  `json:"timer_min"`
	TelemetryMs int64  `json:"telemetry_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func roundCm(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return math.Round(d*10) / 10
}

func buildInner(snap Snapshot) StatusInner {
	f := snap.Frame
	posture := string(f.Posture)
	if posture == "" {
		posture = "UNKNOWN"
	}

	return StatusInner{
		Page:              f.Page.String(),
		Posture:           posture,
		Ready:             !f.Calibrating,
		Alert:             f.Alert,
		Siren:             f.SirenOn,
		SittingSeconds:    f.SittingTime,
		RemainingSeconds:  int64(f.Remaining.Truncate(time.Second).Seconds()),
		DistanceCm:        roundCm(f.Distance),
		SittingDistanceCm: roundCm(f.SittingDistance),
		LEDs:              f.LEDs[:],
		UptimeSeconds:     int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:         snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:         snap.Now.UTC().Format(time.RFC3339),
		MQTT:              MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			SitDowns:     snap.Counts.SitDowns,
			StandUps:     snap.Counts.StandUps,
			Leaves:       snap.Counts.Leaves,
			Alerts:       snap.Counts.Alerts,
			Acknowledges: snap.Counts.Acknowledges,
			Complements:  snap.Counts.Complements,
			SensorFaults: snap.Counts.SensorFaults,
			ButtonFaults: snap.Counts.ButtonFaults,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			DebounceMs:  snap.Config.DebounceMs,
			LongPressMs: snap.Config.LongPressMs,
			TimerMin:    snap.Config.TimerMin,
			TelemetryMs: snap.Config.TelemetryMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
