//go:build linux

package sensor

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// HCSR04 measures distance with an HC-SR04 ultrasonic module.
// The echo pulse width is taken from kernel edge event timestamps, so it is
// not affected by scheduling latency of the reading goroutine.
type HCSR04 struct {
	chip    *gpiocdev.Chip
	trigger *gpiocdev.Line
	echo    *gpiocdev.Line
	edges   chan gpiocdev.LineEvent
	timeout time.Duration
}

// NewHCSR04 requests the trigger and echo lines on the given chip.
func NewHCSR04(chipName string, triggerPin, echoPin int) (*HCSR04, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	s := &HCSR04{
		chip:    chip,
		edges:   make(chan gpiocdev.LineEvent, 8),
		timeout: EchoTimeout,
	}

	s.trigger, err = chip.RequestLine(triggerPin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request trigger pin %d: %w", triggerPin, err)
	}

	s.echo, err = chip.RequestLine(echoPin,
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(s.handleEdge))
	if err != nil {
		s.trigger.Close()
		chip.Close()
		return nil, fmt.Errorf("request echo pin %d: %w", echoPin, err)
	}

	return s, nil
}

// handleEdge runs on the gpiocdev event goroutine.
func (s *HCSR04) handleEdge(evt gpiocdev.LineEvent) {
	select {
	case s.edges <- evt:
	default:
		// Sample is not waiting; stale edges are drained before the next trigger
	}
}

// Sample fires one trigger pulse and waits for the echo.
// Blocks for at most the echo timeout.
func (s *HCSR04) Sample() (float64, error) {
	s.drain()

	if err := s.trigger.SetValue(1); err != nil {
		return 0, fmt.Errorf("set trigger: %w", err)
	}
	time.Sleep(triggerPulse)
	if err := s.trigger.SetValue(0); err != nil {
		return 0, fmt.Errorf("clear trigger: %w", err)
	}

	deadline := time.NewTimer(s.timeout)
	defer deadline.Stop()

	var rise time.Duration
	risen := false
	for {
		select {
		case evt := <-s.edges:
			switch evt.Type {
			case gpiocdev.LineEventRisingEdge:
				rise = evt.Timestamp
				risen = true
			case gpiocdev.LineEventFallingEdge:
				if !risen {
					continue
				}
				return EchoToDistance(evt.Timestamp - rise)
			}
		case <-deadline.C:
			return 0, ErrNoEcho
		}
	}
}

func (s *HCSR04) drain() {
	for {
		select {
		case <-s.edges:
		default:
			return
		}
	}
}

// Close releases GPIO resources.
func (s *HCSR04) Close() error {
	var errs []error

	if s.echo != nil {
		if err := s.echo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close echo pin: %w", err))
		}
	}
	if s.trigger != nil {
		if err := s.trigger.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure trigger pin: %w", err))
		}
		if err := s.trigger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trigger pin: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
