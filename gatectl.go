package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v2"

	"gatectl/cmdpipe"
	"gatectl/console"
	"gatectl/gate"
	"gatectl/indicator"
	"gatectl/motor"
	"gatectl/mqtt"
	"gatectl/store"
)

var myBuild string

// tickInterval bounds every console read, so it doubles as the control
// loop idle delay when no bytes arrive.
const tickInterval = 20 * time.Millisecond

// App holds the application state and dependencies.
type App struct {
	cfg       *Config
	port      io.ReadWriteCloser
	motor     motor.Driver
	store     store.Store
	gate      *gate.Controller
	interp    *console.Interpreter
	indicator indicator.Indicator
	mqtt      *mqtt.Client
	pipe      *cmdpipe.Pipe
	cmds      chan string
	ctx       context.Context
	cancel    context.CancelFunc
}

func main() {
	fmt.Printf("gatectl build %s\n", myBuild)

	cfgfile := flag.String("cfg", "gatectl.cfg", "Config file")
	flag.Parse()

	// Load configuration
	f, err := os.Open(*cfgfile)
	if err != nil {
		log.Fatalf("Open config: %v", err)
	}
	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		log.Fatalf("Decode config: %v", err)
	}
	f.Close()

	if cfg.ClientID == "" {
		cfg.ClientID = "gate"
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		cfg:    &cfg,
		cmds:   make(chan string, 16),
		ctx:    ctx,
		cancel: cancel,
	}

	// Open the command console first: boot diagnostics go to it
	app.port, err = console.Open(cfg.Console, tickInterval)
	if err != nil {
		log.Fatalf("Open console: %v", err)
	}

	app.indicator, err = indicator.New(cfg.Indicator)
	if err != nil {
		log.Fatalf("Init indicator: %v", err)
	}

	app.motor, err = motor.New(cfg.Motor)
	if err != nil {
		log.Fatalf("Init motor: %v", err)
	}

	app.store, err = store.New(cfg.Store)
	if err != nil {
		log.Fatalf("Init store: %v", err)
	}

	// Recovers the persisted angle and homes to closed if needed;
	// emits the recovered-angle and homing boot lines itself.
	app.gate, err = gate.New(cfg.Gate, app.motor, app.store, app.port, gate.Handlers{
		OnMotion:     app.onMotion,
		OnTransition: app.onTransition,
	})
	if err != nil {
		log.Fatalf("Init gate: %v", err)
	}

	app.interp = console.NewInterpreter(app.gate, app.port)

	app.mqtt, err = mqtt.New(cfg.MQTT, cfg.ClientID, mqtt.Handlers{
		OnConnect: app.onMQTTConnect,
		OnMessage: app.onMQTTMessage,
	})
	if err != nil {
		log.Fatalf("Init MQTT: %v", err)
	}
	go func() {
		if err := app.mqtt.Connect(); err != nil {
			log.Printf("MQTT connect: %v", err)
		}
	}()

	app.pipe, err = cmdpipe.New(cfg.CmdPipe, app.QueueCommand)
	if err != nil {
		log.Fatalf("Init command pipe: %v", err)
	}

	app.bootReport()

	go app.run()
	go app.pingSender()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Println("Shutting down...")
	cancel()

	app.mqtt.Disconnect()
	if app.pipe != nil {
		app.pipe.Close()
	}
	app.motor.Release()
	app.indicator.Release()
	app.port.Close()

	fmt.Println("Shutdown complete")
}

// bootReport emits the remaining boot diagnostics over serial: active
// pin and timing configuration. Recovered angle and homing notice were
// already written by gate.New.
func (app *App) bootReport() {
	cfg := app.cfg
	fmt.Fprintf(app.port, "BOOT pins step=%s dir=%s enable=%s invert=%v\r\n",
		pinName(cfg.Motor.StepPin), pinName(cfg.Motor.DirPin),
		pinName(cfg.Motor.EnablePin), cfg.Motor.InvertDirection)
	fmt.Fprintf(app.port, "BOOT timing steps=%d move_ms=%d hold_ms=%d\r\n",
		cfg.Gate.StepsFor90Deg, cfg.Gate.MoveDurationMs, cfg.Gate.HoldAtTopMs)
	fmt.Fprintf(app.port, "READY\r\n")
}

func pinName(pin *int) string {
	if pin == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *pin)
}

// run is the control loop: drain serial bytes, drain injected commands,
// drive the auto-close timer. Single execution context for everything
// that touches the gate; a motion blocks the whole loop until done and
// commands arriving meanwhile queue in the OS serial buffer.
func (app *App) run() {
	buf := make([]byte, 64)

	for {
		select {
		case <-app.ctx.Done():
			return
		default:
		}

		n, err := app.port.Read(buf)
		if err != nil && err != io.EOF {
			log.Printf("Console read: %v", err)
			time.Sleep(time.Second)
			continue
		}
		for _, b := range buf[:n] {
			app.interp.Feed(b)
		}

	drain:
		for {
			select {
			case line := <-app.cmds:
				app.interp.Dispatch(line)
			default:
				break drain
			}
		}

		app.gate.Tick()
	}
}

// QueueCommand hands a command line from another goroutine (MQTT, pipe)
// to the control loop.
func (app *App) QueueCommand(line string) {
	select {
	case app.cmds <- line:
	default:
		log.Printf("Command queue full, dropping %q", line)
	}
}

func (app *App) onMotion() {
	app.indicator.Moving()
}

func (app *App) onTransition(pos gate.Position) {
	switch pos {
	case gate.Open:
		app.indicator.Open()
	case gate.Closed:
		app.indicator.Closed()
	}

	topic := fmt.Sprintf("gate/status/%s/state", app.cfg.ClientID)
	msg := fmt.Sprintf(`{"state":"%s","angle":%d}`, pos, pos.Angle())
	app.mqtt.Publish(topic, msg)
}

func (app *App) onMQTTConnect() {
	topic := fmt.Sprintf("gate/control/%s/command", app.cfg.ClientID)
	if err := app.mqtt.Subscribe(topic); err != nil {
		log.Printf("Subscribe error: %v", err)
	}
}

func (app *App) onMQTTMessage(topic string, payload []byte) {
	cmdTopic := fmt.Sprintf("gate/control/%s/command", app.cfg.ClientID)
	if topic == cmdTopic {
		app.QueueCommand(string(payload))
	}
}

func (app *App) pingSender() {
	ticker := time.NewTicker(120 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			topic := fmt.Sprintf("gate/status/%s/ping", app.cfg.ClientID)
			app.mqtt.Publish(topic, `{"status":"ok"}`)
		}
	}
}
