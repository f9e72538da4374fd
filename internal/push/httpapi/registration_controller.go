package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"push-registrar/internal/infra/httpserver"
	"push-registrar/internal/push/httpapi/internal"
	"push-registrar/internal/push/usecases"
)

const (
	registerErrMessage   = "failed to register device"
	unregisterErrMessage = "failed to unregister device"
)

func NewRegistrationController(service usecases.RegistrarService) *RegistrationController {
	return &RegistrationController{
		service,
	}
}

var _ httpserver.Controller = &RegistrationController{}

type RegistrationController struct {
	service usecases.RegistrarService
}

func (c *RegistrationController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/registration", c.status())
	router.Handle("POST /v1/registration", c.register())
	router.Handle("DELETE /v1/registration", c.unregister())
}

func (c *RegistrationController) status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := c.service.Status(r.Context())
		if err != nil {
			slog.Error("getting registration status", slog.Any("error", err))
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to get registration status")
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromRegistrationStatus(status))
	}
}

func (c *RegistrationController) register() http.HandlerFunc {
	return c.run(c.service.Register, registerErrMessage)
}

func (c *RegistrationController) unregister() http.HandlerFunc {
	return c.run(c.service.Unregister, unregisterErrMessage)
}

func (c *RegistrationController) run(
	operation func(context.Context) (usecases.RegistrationResult, error),
	errMessage string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		span := httpserver.GetSpanFromContext(r)

		result, err := operation(r.Context())
		if err == nil {
			httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromRegistrationResult(result))
			return
		}

		span.RecordError(err)
		slog.Error(errMessage, slog.Any("error", err))

		if result.Failed() {
			httpserver.ReplyJSONResponse(w, http.StatusBadGateway, internal.FromRegistrationResult(result))
			return
		}

		httpserver.ReplyWithError(w, statusCodeFor(err), errMessage+": "+err.Error())
	}
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, usecases.ErrPushNotConfigured),
		errors.Is(err, usecases.ErrObjectIDMissing):
		return http.StatusConflict
	case errors.Is(err, usecases.ErrAccountNotFound):
		return http.StatusPreconditionFailed
	case errors.Is(err, usecases.ErrTransportNotRegistered):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
