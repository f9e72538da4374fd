package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

var errTimeout = errors.New("mqtt: operation timed out")

const (
	_defaultQoS       = 1 // At least once
	_defaultRetained  = false
	_operationTimeout = 5 * time.Second
)

//go:generate mockgen -source=client.go -destination=../../../test/unit/doubles/infra/mqtt/client_mock.go -package=mqtt -mock_names=Client=MockClient

type Client interface {
	Subscribe(topic string, qos byte, callback MessageHandler) error
	Unsubscribe(topic string) error
	Publish(topic string, msg any) error
	IsConnected() bool

	Disconnect()
}

type SimpleClientOpts struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// subscription tracks a topic subscription for reconnection recovery
type subscription struct {
	topic    string
	qos      byte
	callback MessageHandler
}

type MessageHandler func(Client, Message)

type Message interface {
	Topic() string
	MessageID() uint16
	Payload() []byte
	Ack()
}

func NewSimpleClient(opts SimpleClientOpts) (*SimpleClient, error) {
	if opts.Broker == "" {
		return nil, fmt.Errorf("mqtt: missing broker")
	}

	simpleClient := &SimpleClient{
		subscriptions: make(map[string]subscription),
	}

	onConnectHandler := func(client paho.Client) {
		slog.Info("connected to MQTT broker", slog.String("broker", opts.Broker))
		simpleClient.resubscribeAll(client)
	}

	onConnectionLostHandler := func(_ paho.Client, err error) {
		slog.Error("connection lost to MQTT broker", slog.Any("error", err))
	}

	pahoOpts := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetCleanSession(false).
		SetOnConnectHandler(onConnectHandler).
		SetAutoReconnect(true).
		SetConnectionLostHandler(onConnectionLostHandler).
		SetKeepAlive(10 * time.Second).
		SetConnectTimeout(_operationTimeout)

	client := paho.NewClient(pahoOpts)
	if err := wait(client.Connect()); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", opts.Broker, err)
	}

	simpleClient.client = client
	return simpleClient, nil
}

var _ Client = (*SimpleClient)(nil)

type SimpleClient struct {
	client        paho.Client
	subscriptions map[string]subscription
	mu            sync.RWMutex
}

// resubscribeAll restores subscriptions after a reconnect. Failures are
// logged; the next reconnect tries again.
func (c *SimpleClient) resubscribeAll(client paho.Client) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.subscriptions) == 0 {
		return
	}

	slog.Info("restoring MQTT subscriptions", slog.Int("count", len(c.subscriptions)))
	for _, sub := range c.subscriptions {
		err := wait(client.Subscribe(sub.topic, sub.qos, c.adapt(sub.callback)))
		if err != nil {
			slog.Error("failed to restore subscription", slog.String("topic", sub.topic), slog.Any("error", err))
		}
	}
}

func (c *SimpleClient) adapt(callback MessageHandler) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		callback(c, msg)
	}
}

func (c *SimpleClient) Subscribe(topic string, qos byte, callback MessageHandler) error {
	if err := wait(c.client.Subscribe(topic, qos, c.adapt(callback))); err != nil {
		return fmt.Errorf("subscribing to topic %s: %w", topic, err)
	}

	c.mu.Lock()
	c.subscriptions[topic] = subscription{topic: topic, qos: qos, callback: callback}
	c.mu.Unlock()

	slog.Info("subscribed to MQTT topic", slog.String("topic", topic), slog.Int("qos", int(qos)))
	return nil
}

func (c *SimpleClient) Unsubscribe(topic string) error {
	c.mu.Lock()
	delete(c.subscriptions, topic)
	c.mu.Unlock()

	if err := wait(c.client.Unsubscribe(topic)); err != nil {
		return fmt.Errorf("unsubscribing from topic %s: %w", topic, err)
	}

	slog.Info("unsubscribed from MQTT topic", slog.String("topic", topic))
	return nil
}

func (c *SimpleClient) IsConnected() bool {
	return c.client != nil && c.client.IsConnectionOpen()
}

func (c *SimpleClient) Disconnect() {
	c.mu.Lock()
	c.subscriptions = make(map[string]subscription)
	c.mu.Unlock()

	c.client.Disconnect(uint(_operationTimeout.Milliseconds()))
}

func (c *SimpleClient) Publish(topic string, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	if err := wait(c.client.Publish(topic, _defaultQoS, _defaultRetained, payload)); err != nil {
		return fmt.Errorf("publishing to topic %s: %w", topic, err)
	}
	return nil
}

func wait(token paho.Token) error {
	if !token.WaitTimeout(_operationTimeout) {
		return errTimeout
	}
	return token.Error()
}
