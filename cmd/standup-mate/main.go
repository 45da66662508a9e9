// Command standup-mate watches a desk with an ultrasonic sensor, counts the
// time spent sitting and tells the user to stand up on an OLED and three LEDs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/standup-mate/internal/display"
	"github.com/sweeney/standup-mate/internal/gpio"
	"github.com/sweeney/standup-mate/internal/logic"
	"github.com/sweeney/standup-mate/internal/mqtt"
	"github.com/sweeney/standup-mate/internal/sensor"
	"github.com/sweeney/standup-mate/internal/status"
	"github.com/sweeney/standup-mate/internal/web"
)

// wiring holds the hardware and network settings taken from flags.
type wiring struct {
	tick       time.Duration
	chip       string
	pinButton  int
	pinLEDs    [logic.LEDCount]int
	pinTrigger int
	pinEcho    int
	i2cBus     string
	broker     string
	telemetry  time.Duration
	httpAddr   string
	printState bool
}

func main() {
	var w wiring
	flag.DurationVar(&w.tick, "tick", 10*time.Millisecond, "Main loop interval")
	flag.StringVar(&w.chip, "chip", "gpiochip0", "GPIO character device")
	flag.IntVar(&w.pinButton, "pin-button", gpio.DefaultPinButton, "BCM pin number for the push button")
	flag.IntVar(&w.pinLEDs[0], "pin-led1", gpio.DefaultPinLED1, "BCM pin number for LED 1")
	flag.IntVar(&w.pinLEDs[1], "pin-led2", gpio.DefaultPinLED2, "BCM pin number for LED 2")
	flag.IntVar(&w.pinLEDs[2], "pin-led3", gpio.DefaultPinLED3, "BCM pin number for LED 3")
	flag.IntVar(&w.pinTrigger, "pin-trigger", sensor.DefaultPinTrigger, "BCM pin number for the HC-SR04 trigger")
	flag.IntVar(&w.pinEcho, "pin-echo", sensor.DefaultPinEcho, "BCM pin number for the HC-SR04 echo")
	flag.StringVar(&w.i2cBus, "i2c", "", `I2C bus for the OLED ("" selects the first bus)`)
	flag.StringVar(&w.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	flag.DurationVar(&w.telemetry, "telemetry", 15*time.Minute, "Telemetry interval (0 to disable)")
	flag.StringVar(&w.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.BoolVar(&w.printState, "print-state", false, "Print button and distance and exit")

	flag.Parse()

	if err := run(w); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(w wiring) error {
	// Initialize GPIO
	button, err := gpio.NewRealButton(w.chip, w.pinButton)
	if err != nil {
		return fmt.Errorf("init button: %w", err)
	}
	defer button.Close()

	distance, err := sensor.NewHCSR04(w.chip, w.pinTrigger, w.pinEcho)
	if err != nil {
		return fmt.Errorf("init distance sensor: %w", err)
	}
	defer distance.Close()

	// Print state mode
	if w.printState {
		return printState(button, distance)
	}

	leds, err := gpio.NewRealLEDs(w.chip, w.pinLEDs)
	if err != nil {
		return fmt.Errorf("init leds: %w", err)
	}
	defer leds.Close()

	oled, err := display.OpenOLED(w.i2cBus)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer oled.Close()

	// Initialize MQTT
	publisher, mqttStatus := openPublisher(w.broker)
	defer publisher.Close()

	cfg := logic.DefaultConfig()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      w.tick.Milliseconds(),
		DebounceMs:  cfg.DebounceDuration.Milliseconds(),
		LongPressMs: cfg.LongPressThreshold.Milliseconds(),
		TimerMin:    int64(cfg.TimerDuration / time.Minute),
		TelemetryMs: w.telemetry.Milliseconds(),
		Broker:      w.broker,
		HTTPAddr:    w.httpAddr,
	})

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if w.httpAddr != "" {
		srv := web.New(w.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", w.httpAddr)
	}

	log.Printf("started: tick=%v timer=%v broker=%q telemetry=%v", w.tick, cfg.TimerDuration, w.broker, w.telemetry)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(cfg, button, distance, oled, leds, publisher, mqttStatus, tracker, w.telemetry, time.Now, ticker.C, sigCh)
}

// openPublisher connects to the broker, or returns a publisher that drops
// everything when broker is empty or unusable.
func openPublisher(broker string) (mqtt.Publisher, mqtt.ConnectionStatus) {
	if broker == "" {
		log.Printf("mqtt disabled")
		return mqtt.Discard{}, mqtt.Discard{}
	}
	pub, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		log.Printf("mqtt disabled: %v", err)
		return mqtt.Discard{}, mqtt.Discard{}
	}
	return pub, pub
}

func printState(button logic.ButtonReader, distance logic.DistanceSensor) error {
	pressed, err := button.Pressed()
	if err != nil {
		return fmt.Errorf("read button: %w", err)
	}
	buttonState := "RELEASED"
	if pressed {
		buttonState = "PRESSED"
	}

	d, err := distance.Sample()
	if err != nil {
		fmt.Printf("button: %s, distance: %v\n", buttonState, err)
		return nil
	}
	fmt.Printf("button: %s, distance: %.1f cm\n", buttonState, d)
	return nil
}

func runLoop(cfg logic.Config, button logic.ButtonReader, distance logic.DistanceSensor, surface display.Surface, leds gpio.LEDWriter, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, telemetry time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	device := logic.NewDevice(cfg, button, distance, startTime)
	renderer := display.NewRenderer(surface)

	var (
		lastLEDs      [logic.LEDCount]bool
		ledsWritten   bool
		displayFailed bool
		ledsFailed    bool
	)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			frame, events := device.Tick(t)

			for _, event := range events {
				log.Printf("event: %s (posture=%s page=%s sitting=%ds distance=%.1fcm)",
					event.Type, event.Posture, event.Page, event.SittingTime, event.Distance)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			// Log display and LED faults once per outage
			if _, err := renderer.Render(frame); err != nil {
				if !displayFailed {
					log.Printf("display error: %v", err)
				}
				displayFailed = true
			} else if displayFailed {
				log.Printf("display recovered")
				displayFailed = false
			}

			if !ledsWritten || frame.LEDs != lastLEDs {
				if err := leds.Set(frame.LEDs); err != nil {
					if !ledsFailed {
						log.Printf("led error: %v", err)
					}
					ledsFailed = true
				} else {
					ledsFailed = false
					lastLEDs = frame.LEDs
					ledsWritten = true
				}
			}

			if td := device.CheckTelemetry(t, telemetry); td != nil {
				log.Printf("telemetry: uptime=%v posture=%s sitting=%ds sit_downs=%d alerts=%d sensor_faults=%d",
					td.Uptime, td.Frame.Posture, td.Frame.SittingTime, td.Counts.SitDowns, td.Counts.Alerts, td.Counts.SensorFaults)

				tdEvent := mqtt.SystemEvent{
					Timestamp: td.Timestamp,
					Event:     "TELEMETRY",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					tracker.Update(td.Frame, td.Counts)
					snap := tracker.Snapshot()
					tdEvent.RawPayload = status.FormatStatusEvent(snap, "TELEMETRY", "")
				}
				if err := publisher.PublishSystem(tdEvent); err != nil {
					log.Printf("telemetry publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(frame, device.EventCountsSnapshot())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}
