package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danielk69/AWIL/app/api"
	"github.com/danielk69/AWIL/auth"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

type Response struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

func NewLoginHandler(a Authenticator, logger *zap.Logger) *LoginHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginHandler{auth: a, logger: logger}
}

func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if input.Username == "" || input.Password == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing username or password")
		return
	}

	token, expiresAt, err := h.auth.Login(r.Context(), input.Username, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("Login failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	api.WriteJSON(w, http.StatusOK, Response{Token: token, ExpiresAt: expiresAt})
}
