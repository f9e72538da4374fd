package transport_test

import (
	"context"
	"errors"
	"push-registrar/internal/infra/async"
	"push-registrar/internal/infra/cache"
	"push-registrar/internal/infra/mqtt"
	"push-registrar/internal/infra/transport"
	"push-registrar/internal/push/domain"
	"push-registrar/internal/push/usecases"
	mockmqtt "push-registrar/test/unit/doubles/infra/mqtt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"
	"go.uber.org/mock/gomock"
)

type mockMessage struct {
	mock.Mock
}

func (m *mockMessage) Topic() string {
	return m.Called().String(0)
}

func (m *mockMessage) MessageID() uint16 {
	return m.Called().Get(0).(uint16)
}

func (m *mockMessage) Payload() []byte {
	return m.Called().Get(0).([]byte)
}

func (m *mockMessage) Ack() {
	m.Called()
}

var _ = Describe("MQTTTransport", func() {
	var (
		ctx        context.Context
		ctrl       *gomock.Controller
		mockClient *mockmqtt.MockClient
		store      *cache.RistrettoCache
		broker     *async.LocalBroker
		subject    *transport.MQTTTransport
	)

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		mockClient = mockmqtt.NewMockClient(ctrl)

		var err error
		store, err = cache.New(nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		broker = async.NewLocalBroker()
		DeferCleanup(broker.Stop)

		subject, err = transport.NewMQTTTransport(ctx, mockClient, store, broker, transport.MQTTTransportConfig{DeviceID: "device-1"})
		Expect(err).NotTo(HaveOccurred())
	})

	Context("NewMQTTTransport", func() {
		It("should generate and keep a device id when none is configured", func() {
			first, err := transport.NewMQTTTransport(ctx, mockClient, store, nil, transport.MQTTTransportConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(first.DeviceID()).NotTo(BeEmpty())

			second, err := transport.NewMQTTTransport(ctx, mockClient, store, nil, transport.MQTTTransportConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.DeviceID()).To(Equal(first.DeviceID()))
		})
	})

	Context("CheckEligibility", func() {
		It("should fail while the broker is disconnected", func() {
			mockClient.EXPECT().IsConnected().Return(false)

			Expect(subject.CheckEligibility(ctx)).To(MatchError(transport.ErrBrokerDisconnected))
		})

		It("should succeed when connected", func() {
			mockClient.EXPECT().IsConnected().Return(true)

			Expect(subject.CheckEligibility(ctx)).To(Succeed())
		})
	})

	Context("Register", func() {
		It("should subscribe to the device topic and record the registration id", func() {
			mockClient.EXPECT().IsConnected().Return(true)
			mockClient.EXPECT().Subscribe("push/acme/device-1", byte(1), gomock.Any()).Return(nil)

			Expect(subject.Register(ctx, "acme")).To(Succeed())

			registrationID, err := subject.RegistrationID(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(registrationID).To(Equal("acme/device-1"))
		})

		It("should not record anything when the subscription fails", func() {
			mockClient.EXPECT().IsConnected().Return(true)
			mockClient.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("not authorized"))

			Expect(subject.Register(ctx, "acme")).To(MatchError(ContainSubstring("not authorized")))

			registrationID, err := subject.RegistrationID(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(registrationID).To(BeEmpty())
		})

		It("should reject an empty application id", func() {
			Expect(subject.Register(ctx, "")).To(MatchError(transport.ErrEmptyApplicationID))
		})

		It("should forward received pushes to the broker", func() {
			var handler mqtt.MessageHandler
			mockClient.EXPECT().IsConnected().Return(true)
			mockClient.EXPECT().Subscribe("push/acme/device-1", byte(1), gomock.Any()).
				DoAndReturn(func(_ string, _ byte, callback mqtt.MessageHandler) error {
					handler = callback
					return nil
				})
			Expect(subject.Register(ctx, "acme")).To(Succeed())

			subscription, err := broker.Subscribe(transport.PushReceivedTopic)
			Expect(err).NotTo(HaveOccurred())

			message := &mockMessage{}
			message.On("Topic").Return("push/acme/device-1")
			message.On("Payload").Return([]byte(`{"title":"hi"}`))
			message.On("Ack").Return().Once()
			handler(mockClient, message)

			var received async.BrokerMessage
			Eventually(subscription.Receiver).Should(Receive(&received))
			push, ok := received.Value.(transport.Push)
			Expect(ok).To(BeTrue())
			Expect(push.Topic).To(Equal("push/acme/device-1"))
			Expect(string(push.Payload)).To(Equal(`{"title":"hi"}`))
			message.AssertExpectations(GinkgoT())
		})
	})

	Context("after a restart", func() {
		var (
			restartedClient *mockmqtt.MockClient
			restarted       *transport.MQTTTransport
		)

		BeforeEach(func() {
			mockClient.EXPECT().IsConnected().Return(true)
			mockClient.EXPECT().Subscribe("push/acme/device-1", byte(1), gomock.Any()).Return(nil)
			Expect(subject.Register(ctx, "acme")).To(Succeed())

			restartedClient = mockmqtt.NewMockClient(ctrl)
			var err error
			restarted, err = transport.NewMQTTTransport(ctx, restartedClient, store, broker, transport.MQTTTransportConfig{DeviceID: "device-1"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should subscribe again on the new client when the stored id is read", func() {
			restartedClient.EXPECT().IsConnected().Return(true)
			restartedClient.EXPECT().Subscribe("push/acme/device-1", byte(1), gomock.Any()).Return(nil).Times(1)

			registrationID, err := restarted.RegistrationID(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(registrationID).To(Equal("acme/device-1"))

			registrationID, err = restarted.RegistrationID(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(registrationID).To(Equal("acme/device-1"))
		})

		It("should retry the subscription once the broker is reachable", func() {
			restartedClient.EXPECT().IsConnected().Return(false)
			registrationID, err := restarted.RegistrationID(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(registrationID).To(Equal("acme/device-1"))

			restartedClient.EXPECT().IsConnected().Return(true)
			restartedClient.EXPECT().Subscribe("push/acme/device-1", byte(1), gomock.Any()).Return(nil)
			_, err = restarted.RegistrationID(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should resume through the transport registration flow", func() {
			login := &domain.LoginOptions{TransportApplicationID: "acme"}

			restartedClient.EXPECT().IsConnected().Return(true).Times(2)
			restartedClient.EXPECT().Subscribe("push/acme/device-1", byte(1), gomock.Any()).Return(nil)

			Expect(usecases.RegisterTransport(ctx, login, restarted)).To(Succeed())
		})
	})

	Context("Unregister", func() {
		It("should unsubscribe and clear the registration id", func() {
			mockClient.EXPECT().IsConnected().Return(true)
			mockClient.EXPECT().Subscribe("push/acme/device-1", byte(1), gomock.Any()).Return(nil)
			Expect(subject.Register(ctx, "acme")).To(Succeed())

			mockClient.EXPECT().Unsubscribe("push/acme/device-1").Return(nil)
			Expect(subject.Unregister(ctx)).To(Succeed())

			registrationID, err := subject.RegistrationID(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(registrationID).To(BeEmpty())
		})

		It("should unsubscribe a registration made by an earlier process", func() {
			store.Set(ctx, "push:transport:registration_id", "acme/device-1", 0)

			mockClient.EXPECT().Unsubscribe("push/acme/device-1").Return(nil)
			Expect(subject.Unregister(ctx)).To(Succeed())
		})

		It("should be a no-op when nothing was registered", func() {
			Expect(subject.Unregister(ctx)).To(Succeed())
		})

		It("should keep the registration when unsubscribing fails", func() {
			store.Set(ctx, "push:transport:registration_id", "acme/device-1", 0)
			mockClient.EXPECT().Unsubscribe("push/acme/device-1").Return(errors.New("timeout"))

			Expect(subject.Unregister(ctx)).To(HaveOccurred())

			mockClient.EXPECT().IsConnected().Return(false)
			registrationID, err := subject.RegistrationID(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(registrationID).To(Equal("acme/device-1"))
		})
	})
})

var _ = Describe("MemoryTransport", func() {
	var (
		ctx     context.Context
		subject *transport.MemoryTransport
	)

	BeforeEach(func() {
		ctx = context.Background()
		subject = transport.NewMemoryTransport("device-1")
	})

	It("should register and unregister", func() {
		Expect(subject.CheckEligibility(ctx)).To(Succeed())
		Expect(subject.Register(ctx, "acme")).To(Succeed())

		registrationID, _ := subject.RegistrationID(ctx)
		Expect(registrationID).To(Equal("acme/device-1"))

		Expect(subject.Unregister(ctx)).To(Succeed())
		registrationID, _ = subject.RegistrationID(ctx)
		Expect(registrationID).To(BeEmpty())
	})

	It("should report a rotated token", func() {
		Expect(subject.Register(ctx, "acme")).To(Succeed())
		subject.Rotate("acme/device-2")

		registrationID, _ := subject.RegistrationID(ctx)
		Expect(registrationID).To(Equal("acme/device-2"))
	})

	It("should surface eligibility errors", func() {
		notEligible := errors.New("play services missing")
		subject.SetEligibilityError(notEligible)

		Expect(subject.CheckEligibility(ctx)).To(MatchError(notEligible))
	})

	It("should not be eligible without a device id", func() {
		Expect(transport.NewMemoryTransport("").CheckEligibility(ctx)).To(MatchError(transport.ErrDeviceIDMissing))
	})
})
