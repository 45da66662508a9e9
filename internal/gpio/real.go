//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/standup-mate/internal/logic"
)

// RealButton reads the button from actual hardware using Linux GPIO character device.
type RealButton struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealButton requests the button line on the given chip (e.g. "gpiochip0").
func NewRealButton(chipName string, pin int) (*RealButton, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// The button shorts the line to ground, so pull it up and read active low.
	// Debouncing is done in software by logic.Switch.
	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}

	return &RealButton{chip: chip, line: line}, nil
}

// Pressed returns true while the button is held down.
func (b *RealButton) Pressed() (bool, error) {
	v, err := b.line.Value()
	if err != nil {
		return false, fmt.Errorf("read button pin: %w", err)
	}
	// Active low is applied by the kernel: 1 = pressed
	return v == 1, nil
}

// Close releases GPIO resources.
func (b *RealButton) Close() error {
	var errs []error

	if b.line != nil {
		if err := b.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealLEDs drives the status LEDs as one line request.
type RealLEDs struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
}

// NewRealLEDs requests the LED lines as outputs, initially off.
func NewRealLEDs(chipName string, pins [logic.LEDCount]int) (*RealLEDs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	lines, err := chip.RequestLines(pins[:], gpiocdev.AsOutput(make([]int, logic.LEDCount)...))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request LED pins %v: %w", pins, err)
	}

	return &RealLEDs{chip: chip, lines: lines}, nil
}

// Set lights the LEDs whose entry is true.
func (l *RealLEDs) Set(leds [logic.LEDCount]bool) error {
	values := make([]int, logic.LEDCount)
	for i, on := range leds {
		if on {
			values[i] = 1
		}
	}
	if err := l.lines.SetValues(values); err != nil {
		return fmt.Errorf("set LEDs: %w", err)
	}
	return nil
}

// Close switches the LEDs off and releases GPIO resources.
// Lines are returned as inputs (Pi boot default) so nothing stays driven
// after shutdown.
func (l *RealLEDs) Close() error {
	var errs []error

	if l.lines != nil {
		if err := l.lines.SetValues(make([]int, logic.LEDCount)); err != nil {
			errs = append(errs, fmt.Errorf("switch LEDs off: %w", err))
		}
		if err := l.lines.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure LED pins: %w", err))
		}
		if err := l.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close LED pins: %w", err))
		}
	}
	if l.chip != nil {
		if err := l.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
