// Package publisher sends schedule decisions to downstream valve controllers.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"irrigation_controller/internal/logger"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sony/gobreaker"
)

// Publisher delivers one JSON payload per schedule run.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
	Close()
}

const (
	qosAtLeastOnce  = 1
	publishTimeout  = 5 * time.Second
	disconnectQuiet = 250 // ms

	connectMaxElapsed = 10 * time.Second
	connectMaxRetries = 5

	breakerFailures = 3
	breakerOpen     = 30 * time.Second
	breakerInterval = 60 * time.Second
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Config holds the broker settings.
type Config struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Topic    string
	Username string
	Password string
}

// client is the part of mqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// MQTTPublisher publishes at QoS 1 through a circuit breaker.
type MQTTPublisher struct {
	client  client
	topic   string
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: breakerInterval,
		Timeout:  breakerOpen,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= breakerFailures
		},
	})
}

func newMQTTPublisher(c client, topic string, log *logger.Logger) *MQTTPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &MQTTPublisher{
		client:  c,
		topic:   topic,
		breaker: newBreaker("mqtt-" + topic),
		log:     log,
	}
}

// Connect dials the broker, retrying with exponential backoff until ctx is
// done or the retries run out.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*MQTTPublisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = connectMaxElapsed

	var c mqtt.Client
	err := backoff.Retry(func() error {
		c = mqtt.NewClient(opts)
		if token := c.Connect(); token.Wait() && token.Error() != nil {
			log.Warnw("mqtt_connect_failed", "broker", cfg.Broker, "err", token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, connectMaxRetries-1), ctx))
	if err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.Broker, err)
	}

	log.Infow("mqtt_connected", "broker", cfg.Broker, "topic", cfg.Topic)
	return newMQTTPublisher(c, cfg.Topic, log), nil
}

// Publish sends payload to the configured topic. When the breaker is open the
// call fails fast with gobreaker.ErrOpenState.
func (p *MQTTPublisher) Publish(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.breaker.Execute(func() (interface{}, error) {
		token := p.client.Publish(p.topic, qosAtLeastOnce, false, payload)
		if !token.WaitTimeout(publishTimeout) {
			return nil, ErrPublishTimeout
		}
		return nil, token.Error()
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	p.log.Debugw("mqtt_published", "topic", p.topic, "bytes", len(payload))
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(disconnectQuiet)
		p.log.Infow("mqtt_disconnected", "topic", p.topic)
	}
}

// Nop drops every payload. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, []byte) error { return nil }
func (Nop) Close()                                {}
