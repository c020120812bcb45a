// Package emitter publishes quiz lifecycle events to an MQTT broker.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/edusign/edusign/internal/quiz"
)

// Config contains MQTT broker settings.
type Config struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`

	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

// DefaultConfig publishes to a local broker at QoS 1. It is disabled.
func DefaultConfig() Config {
	return Config{
		Broker:         "localhost:1883",
		TopicPrefix:    "edusign/sessions",
		QoS:            1,
		ConnectTimeout: 5 * time.Second,
		PublishTimeout: 2 * time.Second,
	}
}

// Validate checks an enabled configuration.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required when mqtt is enabled")
	}
	if c.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2")
	}
	return nil
}

// Event names, the last topic segment.
const (
	EventStarted  = "started"
	EventAttempt  = "attempt"
	EventFinished = "finished"
)

// publisher is the subset of mqtt.Client the emitter uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes session events to <prefix>/<session>/<event>. It
// implements quiz.Journal. Publish failures are logged and counted, never
// returned to the quiz.
type MQTT struct {
	cfg    Config
	client mqtt.Client
	pub    publisher
	logger *slog.Logger

	mu        sync.RWMutex
	published map[string]uint64
	errors    uint64
	connected bool
	inflight  sync.WaitGroup
}

// Stats contains emitter statistics.
type Stats struct {
	Connected bool
	Published map[string]uint64 // count per event
	Errors    uint64
}

// New creates an emitter. Call Connect before publishing.
func New(cfg Config, logger *slog.Logger) *MQTT {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "edusign-" + uuid.NewString()[:8]
	}
	return &MQTT{
		cfg:       cfg,
		logger:    logger.With("component", "mqtt"),
		published: make(map[string]uint64),
	}
}

// Connect establishes the broker connection with automatic reconnects.
func (e *MQTT) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", e.cfg.Broker))
	opts.SetClientID(e.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(mqtt.Client) {
		e.setConnected(true)
		e.logger.Info("mqtt connection established", "broker", e.cfg.Broker, "client_id", e.cfg.ClientID)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		e.setConnected(false)
		e.logger.Warn("mqtt connection lost, will auto-reconnect", "broker", e.cfg.Broker, "error", err)
	}

	e.client = mqtt.NewClient(opts)
	e.pub = e.client

	e.logger.Info("connecting to mqtt broker", "broker", e.cfg.Broker)
	token := e.client.Connect()

	timeout := time.NewTimer(e.cfg.ConnectTimeout)
	defer timeout.Stop()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout.C:
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}
	e.setConnected(true)
	return nil
}

// Disconnect waits for in-flight publishes and closes the connection.
func (e *MQTT) Disconnect() {
	e.inflight.Wait()
	if e.client != nil && e.client.IsConnected() {
		e.client.Disconnect(250)
		e.logger.Info("mqtt disconnected")
	}
	e.setConnected(false)
}

func (e *MQTT) SessionStarted(_ context.Context, info quiz.SessionInfo) {
	e.emit(info.ID, EventStarted, info)
}

func (e *MQTT) AttemptRecorded(_ context.Context, a quiz.Attempt) {
	e.emit(a.SessionID, EventAttempt, a)
}

func (e *MQTT) SessionFinished(_ context.Context, info quiz.SessionInfo, s quiz.Summary) {
	e.emit(info.ID, EventFinished, struct {
		Session quiz.SessionInfo `json:"session"`
		Summary quiz.Summary     `json:"summary"`
	}{info, s})
}

// Topic returns the topic of event for a session.
func (e *MQTT) Topic(sessionID, event string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(e.cfg.TopicPrefix, "/"), sessionID, event)
}

// emit hands the payload to the client and confirms delivery in the
// background so the quiz loop never waits on the broker.
func (e *MQTT) emit(sessionID, event string, v any) {
	if e.pub == nil || !e.isConnected() {
		e.countError()
		e.logger.Debug("mqtt not connected, dropping event", "event", event, "session", sessionID)
		return
	}

	payload, err := json.Marshal(v)
	if err != nil {
		e.countError()
		e.logger.Warn("failed to marshal event", "event", event, "error", err)
		return
	}

	topic := e.Topic(sessionID, event)
	token := e.pub.Publish(topic, e.cfg.QoS, false, payload)

	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		if !token.WaitTimeout(e.cfg.PublishTimeout) {
			e.countError()
			e.logger.Warn("mqtt publish timeout", "topic", topic)
			return
		}
		if err := token.Error(); err != nil {
			e.countError()
			e.logger.Warn("mqtt publish failed", "topic", topic, "error", err)
			return
		}
		e.mu.Lock()
		e.published[event]++
		e.mu.Unlock()
		e.logger.Debug("event published", "topic", topic, "qos", e.cfg.QoS, "size", len(payload))
	}()
}

// Stats returns emitter statistics.
func (e *MQTT) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	published := make(map[string]uint64, len(e.published))
	for k, v := range e.published {
		published[k] = v
	}
	return Stats{Connected: e.connected, Published: published, Errors: e.errors}
}

func (e *MQTT) setConnected(v bool) {
	e.mu.Lock()
	e.connected = v
	e.mu.Unlock()
}

func (e *MQTT) isConnected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.connected
}

func (e *MQTT) countError() {
	e.mu.Lock()
	e.errors++
	e.mu.Unlock()
}
