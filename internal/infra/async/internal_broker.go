package async

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type BrokerTopicName string

type BrokerMessage struct {
	Event string
	Value any
	Span  trace.Span
}

type InternalBroker interface {
	Subscribe(topic BrokerTopicName) (Subscription, error)
	Unsubscribe(topic BrokerTopicName, subscription Subscription) error
	Publish(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error
	Stop()
}

var _ InternalBroker = (*LocalBroker)(nil)

var (
	ErrTopicNotFound       = errors.New("topic not found")
	ErrSubscriptorNotFound = errors.New("subscriptor not found")
	ErrBrokerStopped       = errors.New("broker stopped")
)

const _defaultReceiverBuffer = 16

// LocalBroker fans messages out to in-process subscribers. A subscriber whose
// buffer is full misses the message instead of blocking the publisher.
type LocalBroker struct {
	mu      sync.RWMutex
	topics  map[BrokerTopicName][]Subscription
	stopped bool
}

type Subscription struct {
	ID       string
	Receiver chan BrokerMessage
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		topics: make(map[BrokerTopicName][]Subscription),
	}
}

func (b *LocalBroker) Subscribe(topic BrokerTopicName) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return Subscription{}, ErrBrokerStopped
	}

	subscription := Subscription{
		ID:       uuid.NewString(),
		Receiver: make(chan BrokerMessage, _defaultReceiverBuffer),
	}
	b.topics[topic] = append(b.topics[topic], subscription)
	return subscription, nil
}

func (b *LocalBroker) Unsubscribe(topic BrokerTopicName, subscription Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscriptions, ok := b.topics[topic]
	if !ok {
		return ErrTopicNotFound
	}

	index := slices.IndexFunc(subscriptions, func(s Subscription) bool { return s.ID == subscription.ID })
	if index < 0 {
		return ErrSubscriptorNotFound
	}

	close(subscriptions[index].Receiver)
	subscriptions = slices.Delete(subscriptions, index, index+1)
	if len(subscriptions) == 0 {
		delete(b.topics, topic)
	} else {
		b.topics[topic] = subscriptions
	}

	return nil
}

// Publish delivers msg to every current subscriber of topic. It returns
// ErrTopicNotFound when nobody listens.
func (b *LocalBroker) Publish(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error {
	msg.Span = trace.SpanFromContext(ctx)

	b.mu.RLock()
	defer b.mu.RUnlock()

	subscriptions, ok := b.topics[topic]
	if !ok {
		return ErrTopicNotFound
	}

	for _, s := range subscriptions {
		select {
		case s.Receiver <- msg:
		default:
		}
	}

	return nil
}

// Stop closes every subscription. Later subscriptions fail with ErrBrokerStopped.
func (b *LocalBroker) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}
	b.stopped = true

	for topic, subscriptions := range b.topics {
		for _, s := range subscriptions {
			close(s.Receiver)
		}
		delete(b.topics, topic)
	}
}
