package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"push-registrar/internal/infra/httpserver"
	"push-registrar/internal/push/domain"
	"push-registrar/internal/push/httpapi/internal"
	"push-registrar/internal/push/usecases"
)

func NewSessionController(service usecases.SessionService, accountType domain.AccountType) *SessionController {
	return &SessionController{
		service:     service,
		accountType: accountType,
	}
}

var _ httpserver.Controller = &SessionController{}

// SessionController lets the hosting agent hand over the REST session the
// registrar acts with.
type SessionController struct {
	service     usecases.SessionService
	accountType domain.AccountType
}

func (c *SessionController) AddRoutes(router *http.ServeMux) {
	router.Handle("PUT /v1/session", c.setSession())
	router.Handle("DELETE /v1/session", c.clearSession())
}

func (c *SessionController) setSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.SessionSetRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, "invalid session body")
			return
		}

		account, err := domain.NewAccountBuilder().
			WithAccountType(c.accountType).
			WithInstanceURL(body.InstanceURL).
			WithTokens(body.AccessToken, body.RefreshToken).
			WithOAuthClient(body.ClientID, body.TokenURL).
			WithUserID(body.UserID).
			Build()
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := c.service.SetAccount(r.Context(), account); err != nil {
			slog.Error("storing session", slog.Any("error", err))
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to store session")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (c *SessionController) clearSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := c.service.ClearAccount(r.Context())
		if errors.Is(err, usecases.ErrAccountNotFound) {
			httpserver.ReplyWithError(w, http.StatusNotFound, "no session stored")
			return
		}
		if err != nil {
			slog.Error("clearing session", slog.Any("error", err))
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to clear session")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
