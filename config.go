package main

import (
	"gatectl/cmdpipe"
	"gatectl/console"
	"gatectl/gate"
	"gatectl/indicator"
	"gatectl/motor"
	"gatectl/mqtt"
	"gatectl/store"
)

// Config is the main configuration structure for gatectl.
type Config struct {
	// Serial command console
	Console console.Config `yaml:"console"`

	// Stepper driver configuration
	Motor motor.Config `yaml:"motor"`

	// Gate travel and timing
	Gate gate.Config `yaml:"gate"`

	// Position persistence
	Store store.Config `yaml:"store"`

	// Barrier lamp configuration
	Indicator indicator.Config `yaml:"indicator"`

	// Optional MQTT telemetry bridge
	MQTT mqtt.Config `yaml:"mqtt"`

	// Optional local command pipe
	CmdPipe cmdpipe.Config `yaml:"cmd_pipe"`

	// General settings
	ClientID string `yaml:"client_id"`
}
