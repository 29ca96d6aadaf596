package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AuthHandler issues photographer session tokens against the single
// env-configured admin account.
type AuthHandler struct {
	credentials Authenticator
	tokens      TokenGenerator
}

func NewAuthHandler(credentials Authenticator, tokens TokenGenerator) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		tokens:      tokens,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.credentials.Authenticate(req.Email, req.Password); err != nil {
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	token, err := h.tokens.Generate(h.credentials.Email())
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token})
}
