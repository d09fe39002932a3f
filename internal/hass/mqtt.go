package hass

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// Config defines the MQTT session toward the home-automation platform.
type Config struct {
	Broker          string
	Username        string
	Password        string
	ClientID        string
	DiscoveryPrefix string
	BaseTopic       string
}

// Bridge owns the broker session. Subscriptions survive reconnects: paho
// drops server-side state on a new session, so the bridge replays its
// subscription table from the OnConnect hook.
type Bridge struct {
	client mqtt.Client
	cfg    Config
	log    *logrus.Entry

	mu     sync.Mutex
	subs   map[string]map[int]func([]byte)
	nextID int
}

const connectTimeout = 10 * time.Second

// Connect dials the broker and publishes bridge availability. The will
// message flips the availability topic to offline if the process dies.
func Connect(cfg Config) (*Bridge, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker is required")
	}
	if cfg.DiscoveryPrefix == "" {
		cfg.DiscoveryPrefix = "homeassistant"
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "dreamebridge"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = randomClientID()
	}

	b := &Bridge{
		cfg:  cfg,
		log:  logrus.WithField("component", "mqtt"),
		subs: make(map[string]map[int]func([]byte)),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetOrderMatters(false)
	opts.SetWill(b.AvailabilityTopic(), PayloadNotAvailable, 1, true)
	opts.SetDefaultPublishHandler(b.dispatch)
	opts.OnConnect = func(_ mqtt.Client) {
		b.resubscribeAll()
		if err := b.Publish(b.AvailabilityTopic(), true, []byte(PayloadAvailable)); err != nil {
			b.log.WithError(err).Warn("publish bridge availability")
		}
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		b.log.WithError(err).Warn("broker connection lost")
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, token.Error())
	}
	b.client = client
	return b, nil
}

// AvailabilityTopic reports bridge (not device) liveness.
func (b *Bridge) AvailabilityTopic() string {
	return b.cfg.BaseTopic + "/bridge/availability"
}

// Topic builds a topic under the bridge base.
func (b *Bridge) Topic(parts ...string) string {
	topic := b.cfg.BaseTopic
	for _, part := range parts {
		topic += "/" + part
	}
	return topic
}

// DiscoveryTopic builds the platform discovery config topic for an entity.
func (b *Bridge) DiscoveryTopic(component, objectID string) string {
	return b.cfg.DiscoveryPrefix + "/" + component + "/" + objectID + "/config"
}

// Publish sends a payload at QoS 1.
func (b *Bridge) Publish(topic string, retained bool, payload []byte) error {
	if token := b.client.Publish(topic, 1, retained, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}

// Subscribe registers a callback and returns its cancel func. Multiple
// callbacks may share one topic; the broker subscription is refcounted.
func (b *Bridge) Subscribe(topic string, cb func([]byte)) (func(), error) {
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func([]byte))
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = cb
	needSubscribe := len(b.subs[topic]) == 1
	b.mu.Unlock()

	if needSubscribe {
		if token := b.client.Subscribe(topic, 1, nil); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
	}

	return func() {
		b.mu.Lock()
		callbacks := b.subs[topic]
		if callbacks == nil {
			b.mu.Unlock()
			return
		}
		delete(callbacks, id)
		shouldUnsub := len(callbacks) == 0
		if shouldUnsub {
			delete(b.subs, topic)
		}
		b.mu.Unlock()
		if shouldUnsub {
			_ = b.client.Unsubscribe(topic).Wait()
		}
	}, nil
}

// Close marks the bridge offline and disconnects.
func (b *Bridge) Close() {
	if b.client == nil {
		return
	}
	_ = b.Publish(b.AvailabilityTopic(), true, []byte(PayloadNotAvailable))
	b.client.Disconnect(250)
}

func (b *Bridge) dispatch(_ mqtt.Client, msg mqtt.Message) {
	b.mu.Lock()
	callbacks := b.subs[msg.Topic()]
	list := make([]func([]byte), 0, len(callbacks))
	for _, cb := range callbacks {
		list = append(list, cb)
	}
	b.mu.Unlock()
	for _, cb := range list {
		cb(msg.Payload())
	}
}

func (b *Bridge) resubscribeAll() {
	b.mu.Lock()
	topics := make([]string, 0, len(b.subs))
	for topic := range b.subs {
		topics = append(topics, topic)
	}
	b.mu.Unlock()
	for _, topic := range topics {
		_ = b.client.Subscribe(topic, 1, nil).Wait()
	}
}

func randomClientID() string {
	nonce := make([]byte, 8)
	_, _ = rand.Read(nonce)
	return "dreamebridge-" + base64.RawURLEncoding.EncodeToString(nonce)
}
