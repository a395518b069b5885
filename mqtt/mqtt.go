// Package mqtt wraps the paho client for gate telemetry and remote
// commands.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Client wraps the MQTT client. A zero-configured client is disabled
// and all operations are no-ops, so callers never need to special-case
// installations without a broker.
type Client struct {
	client    paho.Client
	clientID  string
	enabled   bool
	onConnect func()
	onMessage func(topic string, payload []byte)
}

// Config holds MQTT broker connection settings.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	CACert   string `yaml:"ca_cert"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Handlers holds callback functions for MQTT events.
type Handlers struct {
	OnConnect func()
	OnMessage func(topic string, payload []byte)
}

// New creates a new MQTT client. Returns a disabled no-op client if no
// host is configured.
func New(cfg Config, clientID string, handlers Handlers) (*Client, error) {
	c := &Client{
		clientID:  clientID,
		onConnect: handlers.OnConnect,
		onMessage: handlers.OnMessage,
	}

	if cfg.Host == "" {
		log.Println("MQTT disabled (no host configured)")
		return c, nil
	}
	c.enabled = true

	var broker string
	var tlsConfig *tls.Config

	if cfg.CACert != "" {
		if cfg.Port == 0 {
			cfg.Port = 8883
		}
		broker = fmt.Sprintf("ssl://%s:%d", cfg.Host, cfg.Port)

		caCert, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("no certificates in %s", cfg.CACert)
		}
		tlsConfig = &tls.Config{RootCAs: pool}
	} else {
		if cfg.Port == 0 {
			cfg.Port = 1883
		}
		broker = fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetKeepAlive(60 * time.Second).
		SetOnConnectHandler(c.handleConnect).
		SetConnectionLostHandler(c.handleConnectionLost).
		SetDefaultPublishHandler(c.handleMessage)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}

	c.client = paho.NewClient(opts)
	return c, nil
}

// Connect connects to the broker. No-op when disabled.
func (c *Client) Connect() error {
	if !c.enabled {
		return nil
	}
	token := c.client.Connect()
	token.Wait()
	return token.Error()
}

// Disconnect disconnects from the broker. No-op when disabled.
func (c *Client) Disconnect() {
	if !c.enabled {
		return
	}
	c.client.Disconnect(250)
}

// Publish publishes a message. No-op when disabled.
func (c *Client) Publish(topic, payload string) {
	if !c.enabled {
		return
	}
	c.client.Publish(topic, 0, false, payload)
}

// Subscribe subscribes to a topic. No-op when disabled.
func (c *Client) Subscribe(topic string) error {
	if !c.enabled {
		return nil
	}
	token := c.client.Subscribe(topic, 0, nil)
	token.Wait()
	return token.Error()
}

func (c *Client) handleConnect(client paho.Client) {
	log.Println("MQTT connected")
	if c.onConnect != nil {
		c.onConnect()
	}
}

func (c *Client) handleConnectionLost(client paho.Client, err error) {
	log.Printf("MQTT connection lost: %v", err)
}

func (c *Client) handleMessage(client paho.Client, msg paho.Message) {
	if c.onMessage != nil {
		c.onMessage(msg.Topic(), msg.Payload())
	}
}
