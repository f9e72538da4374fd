package httpapi_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"push-registrar/internal/push/domain"
	"push-registrar/internal/push/httpapi"
	"push-registrar/internal/push/usecases"
	mockusecases "push-registrar/test/unit/doubles/push/usecases"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("SessionController", func() {
	const accountType = domain.AccountType("com.acme.mobile")

	var (
		ctrl        *gomock.Controller
		mockService *mockusecases.MockSessionService
		router      *http.ServeMux
		recorder    *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		mockService = mockusecases.NewMockSessionService(ctrl)
		router = http.NewServeMux()
		httpapi.NewSessionController(mockService, accountType).AddRoutes(router)
		recorder = httptest.NewRecorder()
	})

	Context("setSession", func() {
		It("should store the account for the configured account type", func() {
			mockService.EXPECT().SetAccount(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, account domain.Account) error {
					Expect(account.AccountType).To(Equal(accountType))
					Expect(account.InstanceURL).To(Equal("https://acme.my.example.com"))
					Expect(account.AccessToken).To(Equal("access-1"))
					Expect(account.ID).NotTo(BeEmpty())
					return nil
				})

			body := `{"instance_url":"https://acme.my.example.com","access_token":"access-1"}`
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/v1/session", strings.NewReader(body)))

			Expect(recorder.Code).To(Equal(http.StatusNoContent))
		})

		It("should reject a malformed body", func() {
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/v1/session", strings.NewReader(`{`)))

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject an account that fails validation", func() {
			body := `{"instance_url":"not-a-url","access_token":"access-1"}`
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/v1/session", strings.NewReader(body)))

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("should fail when the account cannot be stored", func() {
			mockService.EXPECT().SetAccount(gomock.Any(), gomock.Any()).Return(errors.New("db locked"))

			body := `{"instance_url":"https://acme.my.example.com","access_token":"access-1"}`
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/v1/session", strings.NewReader(body)))

			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Context("clearSession", func() {
		It("should clear the stored account", func() {
			mockService.EXPECT().ClearAccount(gomock.Any()).Return(nil)

			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/v1/session", nil))

			Expect(recorder.Code).To(Equal(http.StatusNoContent))
		})

		It("should return not found when no session exists", func() {
			mockService.EXPECT().ClearAccount(gomock.Any()).
				Return(fmt.Errorf("deleting account: %w", usecases.ErrAccountNotFound))

			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/v1/session", nil))

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})
	})
})
