// Package mqtt provides MQTT publishing with abstraction for testing.
// Publishing is one-way telemetry: nothing is subscribed and the device never
// depends on the broker being reachable.
package mqtt

import (
	"encoding/json"
	"math"
	"time"

	"github.com/sweeney/standup-mate/internal/logic"
)

// Topic is the MQTT topic for posture events.
const Topic = "office/standup/events"

// TopicSystem is the MQTT topic for system lifecycle and telemetry events.
const TopicSystem = "office/standup/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a posture event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, telemetry).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "TELEMETRY"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Posture PosturePayload `json:"posture"`
}

// PosturePayload contains the posture event details.
type PosturePayload struct {
	Timestamp      string  `json:"timestamp"`
	Event          string  `json:"event"`
	State          string  `json:"state"`
	Page           string  `json:"page"`
	SittingSeconds int     `json:"sitting_seconds"`
	DistanceCm     float64 `json:"distance_cm"`
}

// FormatPayload creates the JSON payload for a posture event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Posture: PosturePayload{
			Timestamp:      event.Timestamp.UTC().Format(time.RFC3339),
			Event:          string(event.Type),
			State:          string(event.Posture),
			Page:           event.Page.String(),
			SittingSeconds: event.SittingTime,
			DistanceCm:     math.Round(event.Distance*10) / 10,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
