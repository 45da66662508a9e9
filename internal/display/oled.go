package display

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// OLED is a Canvas backed by an SSD1306 panel on I2C.
type OLED struct {
	*Canvas
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

// OpenOLED initialises the periph host drivers and opens the panel on the
// named I2C bus ("" selects the first available bus).
func OpenOLED(busName string) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}

	return &OLED{
		Canvas: NewCanvas(dev),
		bus:    bus,
		dev:    dev,
	}, nil
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	var errs []error

	if o.dev != nil {
		if err := o.dev.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt ssd1306: %w", err))
		}
	}
	if o.bus != nil {
		if err := o.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
