package usecases_test

import (
	"context"
	"errors"
	"push-registrar/internal/push/usecases"
	mockusecases "push-registrar/test/unit/doubles/push/usecases"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = ginkgo.Describe("RegistrationWorker", func() {
	var (
		ctrl          *gomock.Controller
		mockRegistrar *mockusecases.MockRegistrarService
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		mockRegistrar = mockusecases.NewMockRegistrarService(ctrl)
	})

	run := func(worker *usecases.RegistrationWorker, ctx context.Context) chan struct{} {
		finished := make(chan struct{})
		go worker.Run(ctx, func() { close(finished) })
		return finished
	}

	ginkgo.It("should reject an invalid schedule", func() {
		_, err := usecases.NewRegistrationWorker(mockRegistrar, usecases.RegistrationWorkerConfig{Schedule: "every now and then"})
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should reconcile on start and on every tick", func() {
		worker, err := usecases.NewRegistrationWorker(mockRegistrar, usecases.RegistrationWorkerConfig{Schedule: "@every 1s"})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		reconciled := make(chan struct{}, 10)
		mockRegistrar.EXPECT().Reconcile(gomock.Any()).
			DoAndReturn(func(context.Context) (bool, error) {
				reconciled <- struct{}{}
				return false, nil
			}).MinTimes(2)

		ctx, cancel := context.WithCancel(context.Background())
		finished := run(worker, ctx)

		gomega.Eventually(reconciled).Should(gomega.Receive())
		gomega.Eventually(reconciled).WithTimeout(3 * time.Second).Should(gomega.Receive())

		cancel()
		gomega.Eventually(finished).Should(gomega.BeClosed())
	})

	ginkgo.It("should keep running when reconciling fails", func() {
		worker, err := usecases.NewRegistrationWorker(mockRegistrar, usecases.RegistrationWorkerConfig{})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		mockRegistrar.EXPECT().Reconcile(gomock.Any()).Return(false, errors.New("no session"))

		finished := run(worker, context.Background())
		gomega.Consistently(finished).ShouldNot(gomega.BeClosed())

		worker.Shutdown()
		gomega.Eventually(finished).Should(gomega.BeClosed())
	})

	ginkgo.It("should unregister on shutdown when asked to", func() {
		worker, err := usecases.NewRegistrationWorker(mockRegistrar, usecases.RegistrationWorkerConfig{UnregisterOnShutdown: true})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomock.InOrder(
			mockRegistrar.EXPECT().Reconcile(gomock.Any()).Return(true, nil),
			mockRegistrar.EXPECT().Unregister(gomock.Any()).Return(usecases.RegistrationResult{}, nil),
		)

		ctx, cancel := context.WithCancel(context.Background())
		finished := run(worker, ctx)
		cancel()

		gomega.Eventually(finished).Should(gomega.BeClosed())
		worker.Shutdown()
	})
})
