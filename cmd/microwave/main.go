// Command microwave runs the microwave oven controller: keypad, door and
// weight sensors, display and heater outputs on a cooperative tick loop,
// with state changes published to MQTT and served over HTTP.
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

	"github.com/sweeney/microwave/internal/display"
	"github.com/sweeney/microwave/internal/gpio"
	"github.com/sweeney/microwave/internal/keypad"
	"github.com/sweeney/microwave/internal/logic"
	"github.com/sweeney/microwave/internal/mqtt"
	"github.com/sweeney/microwave/internal/oven"
	"github.com/sweeney/microwave/internal/status"
	"github.com/sweeney/microwave/internal/web"
)

// keyQueueSize bounds key presses waiting for the input task.
const keyQueueSize = 16

type config struct {
	tick      time.Duration
	broker    string
	clientID  string
	heartbeat time.Duration
	httpAddr  string
	sensors   string
	outputs   string
	chip      string
	pins      gpio.OutputPins
	pinDoor   int
	pinWeight int
	console   bool
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("microwave", flag.ContinueOnError)
	fs.DurationVar(&cfg.tick, "tick", 100*time.Millisecond, "Scheduler base tick")
	fs.StringVar(&cfg.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	fs.StringVar(&cfg.clientID, "client-id", "microwave", "MQTT client ID")
	fs.DurationVar(&cfg.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	fs.StringVar(&cfg.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	fs.StringVar(&cfg.sensors, "sensors", "sim", `Door/weight sensors: "sim" (keys A/B) or "gpio"`)
	fs.StringVar(&cfg.outputs, "outputs", "gpio", `Outputs: "gpio" or "log"`)
	fs.StringVar(&cfg.chip, "chip", gpio.DefaultChip, "GPIO chip name")
	fs.IntVar(&cfg.pins[gpio.Heater], "pin-heater", gpio.DefaultPinHeater, "BCM pin for the heater")
	fs.IntVar(&cfg.pins[gpio.Lamp], "pin-lamp", gpio.DefaultPinLamp, "BCM pin for the lamp")
	fs.IntVar(&cfg.pins[gpio.Motor], "pin-motor", gpio.DefaultPinMotor, "BCM pin for the turntable motor")
	fs.IntVar(&cfg.pins[gpio.DoorLED], "pin-door-led", gpio.DefaultPinDoorLED, "BCM pin for the door indicator")
	fs.IntVar(&cfg.pins[gpio.WeightLED], "pin-weight-led", gpio.DefaultPinWeightLED, "BCM pin for the weight indicator")
	fs.IntVar(&cfg.pinDoor, "pin-door", gpio.DefaultPinDoor, "BCM pin for the door sensor (gpio sensors only)")
	fs.IntVar(&cfg.pinWeight, "pin-weight", gpio.DefaultPinWeight, "BCM pin for the weight sensor (gpio sensors only)")
	fs.BoolVar(&cfg.console, "console", false, "Use the terminal as keypad and display")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if cfg.tick <= 0 {
		return config{}, fmt.Errorf("tick must be positive, got %v", cfg.tick)
	}
	if cfg.sensors != "sim" && cfg.sensors != "gpio" {
		return config{}, fmt.Errorf("unknown sensors %q (want sim or gpio)", cfg.sensors)
	}
	if cfg.outputs != "gpio" && cfg.outputs != "log" {
		return config{}, fmt.Errorf("unknown outputs %q (want gpio or log)", cfg.outputs)
	}
	return cfg, nil
}

func run(cfg config) error {
	// Outputs
	var outputs gpio.Writer
	if cfg.outputs == "gpio" {
		w, err := gpio.NewRealWriter(cfg.chip, cfg.pins)
		if err != nil {
			return fmt.Errorf("init outputs: %w", err)
		}
		outputs = w
	} else {
		outputs = gpio.NewLogWriter()
	}
	defer outputs.Close()

	// Sensors (nil selects the keypad-driven simulation)
	var sensors logic.Sensors
	if cfg.sensors == "gpio" {
		r, err := gpio.NewRealReader(cfg.chip, cfg.pinDoor, cfg.pinWeight)
		if err != nil {
			return fmt.Errorf("init sensors: %w", err)
		}
		defer r.Close()
		sensors = logic.NewPinSensors(r)
	}

	// Keypad and display
	keys := keypad.NewQueue(keyQueueSize)
	var disp display.Display = display.NewLogger()
	if cfg.console {
		con, err := keypad.NewConsole(os.Stdin, keys)
		if err != nil {
			return fmt.Errorf("init console: %w", err)
		}
		defer con.Close()
		disp = display.NewConsole(os.Stdout)
	}

	ov, err := oven.New(oven.Config{Keys: keys, Sensors: sensors, Display: disp, Outputs: outputs})
	if err != nil {
		return err
	}
	if err := ov.Init(); err != nil {
		log.Printf("init: %v", err)
	}

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(cfg.broker, cfg.clientID)
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      cfg.tick.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
		Sensors:     cfg.sensors,
		Outputs:     cfg.outputs,
	})
	tracker.Update(ov.Snapshot(), ov.Ticks(), logic.EventCounts{})

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
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker, keys)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	log.Printf("started: tick=%v broker=%s heartbeat=%v sensors=%s outputs=%s console=%v",
		cfg.tick, cfg.broker, cfg.heartbeat, cfg.sensors, cfg.outputs, cfg.console)

	ticker := time.NewTicker(cfg.tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ov, publisher, publisher, tracker, cfg.heartbeat, time.Now, ticker.C, sigCh)
}

// machine is the part of the oven the loop drives.
type machine interface {
	Tick() error
	Ticks() uint64
	Snapshot() logic.Snapshot
	Off() error
}

func runLoop(m machine, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	watcher := logic.NewWatcher(startTime)
	watcher.Process(m.Snapshot(), startTime)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if err := m.Off(); err != nil {
				log.Printf("outputs off: %v", err)
			}
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
				tracker.Update(m.Snapshot(), m.Ticks(), watcher.EventCountsSnapshot())
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			if err := m.Tick(); err != nil {
				// Task faults never stop the oven.
				log.Printf("tick %d: %v", m.Ticks()-1, err)
			}

			snap := m.Snapshot()
			for _, event := range watcher.Process(snap, t) {
				log.Printf("event: %s (mode=%s output=%s door=%s weight=%s set=%d remaining=%d)",
					event.Type, event.Mode, event.Output, event.Door, event.Weight, event.SetTime, event.Remaining)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
				}
			}

			if tracker != nil {
				tracker.Update(snap, m.Ticks(), watcher.EventCountsSnapshot())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			// Check for heartbeat
			if hbData := watcher.CheckHeartbeat(t, heartbeat); hbData != nil {
				c := hbData.Counts
				log.Printf("heartbeat: uptime=%v mode_changes=%d heating_on=%d cook_done=%d",
					hbData.Uptime, c.ModeChanges, c.HeatingOn, c.CookDone)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}
