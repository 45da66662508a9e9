package logic

import "time"

// SwitchEvent is the edge produced by a single Process call.
type SwitchEvent int

const (
	SwitchNone SwitchEvent = iota
	SwitchToggle
	SwitchLongPress
)

// SwitchState tracks debounce and press timing for the push button.
type SwitchState struct {
	// Last raw sample
	Raw bool
	// Current stable (debounced) level, true = pressed
	Debounced bool
	// Whether a level different from Debounced is being observed
	Pending bool
	// Time when the pending level was first observed
	PendingSince time.Time
	// Time of the debounced press
	PressStart time.Time
	// Set once per hold when the long-press threshold is crossed
	LongPress bool
}

// Switch debounces the raw button level and classifies presses.
type Switch struct {
	debounce  time.Duration
	longPress time.Duration
	state     SwitchState

	toggling      bool
	longPressEdge bool
}

// NewSwitch creates a switch state machine with the given debounce and
// long-press durations.
func NewSwitch(debounce, longPress time.Duration) *Switch {
	return &Switch{
		debounce:  debounce,
		longPress: longPress,
	}
}

// Process takes a raw button sample and returns the edge it produced, if any.
func (s *Switch) Process(pressed bool, now time.Time) SwitchEvent {
	st := &s.state
	st.Raw = pressed

	if pressed == st.Debounced {
		// Bounce back to the stable level cancels the pending change
		st.Pending = false
		return s.checkHold(now)
	}

	if !st.Pending {
		st.Pending = true
		st.PendingSince = now
	}
	if now.Sub(st.PendingSince) < s.debounce {
		return s.checkHold(now)
	}

	st.Debounced = pressed
	st.Pending = false

	if pressed {
		st.PressStart = now
		st.LongPress = false
		return s.checkHold(now)
	}

	wasLong := st.LongPress
	st.LongPress = false
	if wasLong {
		return SwitchNone
	}
	s.toggling = true
	return SwitchToggle
}

// checkHold raises the long-press edge once per hold.
func (s *Switch) checkHold(now time.Time) SwitchEvent {
	st := &s.state
	if !st.Debounced || st.LongPress {
		return SwitchNone
	}
	if now.Sub(st.PressStart) < s.longPress {
		return SwitchNone
	}
	st.LongPress = true
	s.longPressEdge = true
	return SwitchLongPress
}

// CheckToggling reports whether a short press is pending and consumes it.
func (s *Switch) CheckToggling() bool {
	t := s.toggling
	s.toggling = false
	return t
}

// CheckLongPress reports whether a long press is pending and consumes it.
func (s *Switch) CheckLongPress() bool {
	l := s.longPressEdge
	s.longPressEdge = false
	return l
}

// State returns a copy of the switch state.
func (s *Switch) State() SwitchState {
	return s.state
}
