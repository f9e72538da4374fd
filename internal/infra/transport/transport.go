package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"push-registrar/internal/infra/async"
	"push-registrar/internal/infra/cache"
	"push-registrar/internal/infra/mqtt"
	"push-registrar/internal/infra/utils"
	"push-registrar/internal/push/usecases"
	"strings"
	"sync"
	"time"
)

const (
	_registrationIDKey = "push:transport:registration_id"
	_deviceIDKey       = "push:transport:device_id"
	_pushTopicPrefix   = "push"
	_pushQoS           = 1
)

// PushReceivedTopic carries every push delivered to this device.
const PushReceivedTopic async.BrokerTopicName = "push.received"

var (
	ErrBrokerDisconnected = errors.New("mqtt broker is not connected")
	ErrDeviceIDMissing    = errors.New("device id is missing")
	ErrEmptyApplicationID = errors.New("application id is required")
)

// Push is a notification delivered over the transport.
type Push struct {
	Topic      string
	Payload    []byte
	ReceivedAt time.Time
}

type MQTTTransportConfig struct {
	// DeviceID is generated and kept in the store when empty.
	DeviceID string
}

var _ usecases.Transport = (*MQTTTransport)(nil)

// MQTTTransport registers the device by subscribing to its own push topic on
// the broker. The registration id is "<appID>/<deviceID>".
type MQTTTransport struct {
	client mqtt.Client
	store  cache.Cache
	broker async.InternalBroker

	mu       sync.Mutex
	deviceID string
	topic    string
}

// NewMQTTTransport builds the transport. broker may be nil, in which case
// received pushes are only logged.
func NewMQTTTransport(
	ctx context.Context,
	client mqtt.Client,
	store cache.Cache,
	broker async.InternalBroker,
	config MQTTTransportConfig,
) (*MQTTTransport, error) {
	deviceID := config.DeviceID
	if deviceID == "" {
		value, err := store.GetOrSet(ctx, _deviceIDKey, 0, func() (any, error) {
			return utils.GenerateUUID(), nil
		})
		if err != nil {
			return nil, fmt.Errorf("loading device id: %w", err)
		}
		deviceID, _ = value.(string)
	}

	return &MQTTTransport{
		client:   client,
		store:    store,
		broker:   broker,
		deviceID: deviceID,
	}, nil
}

func (t *MQTTTransport) DeviceID() string {
	return t.deviceID
}

func (t *MQTTTransport) CheckEligibility(_ context.Context) error {
	if !t.client.IsConnected() {
		return ErrBrokerDisconnected
	}
	if t.deviceID == "" {
		return ErrDeviceIDMissing
	}
	return nil
}

// RegistrationID returns the stored registration id. A registration recorded
// by an earlier process has no live subscription on this client, so the
// subscription is resumed before the id is reported.
func (t *MQTTTransport) RegistrationID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	value, ok := t.store.Get(ctx, _registrationIDKey)
	if !ok {
		return "", nil
	}
	registrationID, _ := value.(string)
	if registrationID != "" && t.topic == "" {
		t.resume(registrationID)
	}
	return registrationID, nil
}

// resume subscribes again to the topic of a stored registration. It is retried
// on the next lookup while the broker is unreachable.
func (t *MQTTTransport) resume(registrationID string) {
	if !t.client.IsConnected() {
		slog.Debug("broker disconnected, push subscription not resumed",
			slog.String("registration_id", registrationID))
		return
	}

	topic := _pushTopicPrefix + "/" + registrationID
	if err := t.client.Subscribe(topic, _pushQoS, t.onPush); err != nil {
		slog.Warn("resuming push subscription failed",
			slog.String("topic", topic),
			slog.Any("error", err))
		return
	}

	t.topic = topic
	slog.Info("push subscription resumed", slog.String("topic", topic))
}

// Register subscribes to push/<appID>/<deviceID> and records the registration
// id once the broker acknowledged the subscription.
func (t *MQTTTransport) Register(ctx context.Context, applicationID string) error {
	if applicationID == "" {
		return ErrEmptyApplicationID
	}
	if err := t.CheckEligibility(ctx); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	topic := strings.Join([]string{_pushTopicPrefix, applicationID, t.deviceID}, "/")
	if err := t.client.Subscribe(topic, _pushQoS, t.onPush); err != nil {
		return fmt.Errorf("subscribing to push topic: %w", err)
	}
	t.topic = topic

	registrationID := applicationID + "/" + t.deviceID
	if !t.store.Set(ctx, _registrationIDKey, registrationID, 0) {
		_ = t.client.Unsubscribe(topic)
		t.topic = ""
		return errors.New("storing registration id")
	}

	return nil
}

// Unregister drops the subscription and forgets the registration id.
func (t *MQTTTransport) Unregister(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	topic := t.topic
	if topic == "" {
		topic = t.topicFromStore(ctx)
	}

	if topic != "" {
		if err := t.client.Unsubscribe(topic); err != nil {
			return fmt.Errorf("unsubscribing from push topic: %w", err)
		}
	}

	t.topic = ""
	t.store.Delete(ctx, _registrationIDKey)
	return nil
}

// topicFromStore rebuilds the topic of a registration made by an earlier process.
func (t *MQTTTransport) topicFromStore(ctx context.Context) string {
	value, ok := t.store.Get(ctx, _registrationIDKey)
	if !ok {
		return ""
	}
	registrationID, _ := value.(string)
	if registrationID == "" {
		return ""
	}
	return _pushTopicPrefix + "/" + registrationID
}

func (t *MQTTTransport) onPush(_ mqtt.Client, msg mqtt.Message) {
	push := Push{
		Topic:      msg.Topic(),
		Payload:    msg.Payload(),
		ReceivedAt: time.Now(),
	}

	slog.Info("push received",
		slog.String("topic", push.Topic),
		slog.Int("size", len(push.Payload)))

	if t.broker != nil {
		err := t.broker.Publish(context.Background(), PushReceivedTopic, async.BrokerMessage{
			Event: "push_received",
			Value: push,
		})
		if err != nil && !errors.Is(err, async.ErrTopicNotFound) {
			slog.Warn("forwarding push failed", slog.Any("error", err))
		}
	}

	msg.Ack()
}
