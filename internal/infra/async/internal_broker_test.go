package async_test

import (
	"context"
	"push-registrar/internal/infra/async"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Local Broker", func() {
	const topic = async.BrokerTopicName("push.received")

	var (
		broker *async.LocalBroker
		ctx    context.Context
	)

	BeforeEach(func() {
		broker = async.NewLocalBroker()
		ctx = context.Background()
	})

	Context("Publish", func() {
		It("should fail when nobody subscribed to the topic", func() {
			err := broker.Publish(ctx, topic, async.BrokerMessage{Event: "push_received"})
			Expect(err).To(MatchError(async.ErrTopicNotFound))
		})

		It("should deliver the message to every subscriber", func() {
			first, err := broker.Subscribe(topic)
			Expect(err).NotTo(HaveOccurred())
			second, err := broker.Subscribe(topic)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.ID).NotTo(Equal(second.ID))

			Expect(broker.Publish(ctx, topic, async.BrokerMessage{Event: "push_received", Value: 1})).To(Succeed())

			Eventually(first.Receiver).Should(Receive(HaveField("Value", 1)))
			Eventually(second.Receiver).Should(Receive(HaveField("Event", "push_received")))
		})

		It("should not block when a subscriber stops reading", func() {
			_, err := broker.Subscribe(topic)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 100; i++ {
				Expect(broker.Publish(ctx, topic, async.BrokerMessage{Value: i})).To(Succeed())
			}
		})
	})

	Context("Unsubscribe", func() {
		It("should close the receiver and forget the topic", func() {
			subscription, err := broker.Subscribe(topic)
			Expect(err).NotTo(HaveOccurred())

			Expect(broker.Unsubscribe(topic, subscription)).To(Succeed())

			Eventually(subscription.Receiver).Should(BeClosed())
			Expect(broker.Publish(ctx, topic, async.BrokerMessage{})).To(MatchError(async.ErrTopicNotFound))
		})

		It("should fail for unknown topics and subscriptions", func() {
			subscription, err := broker.Subscribe(topic)
			Expect(err).NotTo(HaveOccurred())

			Expect(broker.Unsubscribe("other", subscription)).To(MatchError(async.ErrTopicNotFound))
			Expect(broker.Unsubscribe(topic, async.Subscription{ID: "missing"})).To(MatchError(async.ErrSubscriptorNotFound))
		})
	})

	Context("Stop", func() {
		It("should close all subscriptions and refuse new ones", func() {
			subscription, err := broker.Subscribe(topic)
			Expect(err).NotTo(HaveOccurred())

			broker.Stop()
			broker.Stop()

			Eventually(subscription.Receiver).Should(BeClosed())
			_, err = broker.Subscribe(topic)
			Expect(err).To(MatchError(async.ErrBrokerStopped))
		})
	})
})
