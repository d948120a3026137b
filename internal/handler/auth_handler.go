package handler

import (
	"net/http"

	"go-bookshelf/internal/model"
	"go-bookshelf/internal/service"
	"go-bookshelf/internal/session"
)

// AuthHandler adapts AuthService to HTTP. Tokens travel only in cookies;
// cookies are written only after the service call succeeds.
type AuthHandler struct {
	service *service.AuthService
	cookies *session.CookieManager
}

func NewAuthHandler(service *service.AuthService, cookies *session.CookieManager) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	tokens, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.SetAccess(w, tokens.AccessToken)
	h.cookies.SetRefresh(w, tokens.RefreshToken)
	writeMessage(w, http.StatusOK, "Login Successful")
}

// Authenticate returns the user behind the access cookie.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	token, _ := h.cookies.AccessToken(r)

	user, err := h.service.Authenticate(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, _ := h.cookies.RefreshToken(r)

	tokens, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.SetAccess(w, tokens.AccessToken)
	if tokens.RefreshToken != "" {
		h.cookies.SetRefresh(w, tokens.RefreshToken)
	}
	writeMessage(w, http.StatusOK, "Successfully Refreshed")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := h.cookies.RefreshToken(r)

	h.service.Logout(r.Context(), token)
	h.cookies.Clear(w)
	writeMessage(w, http.StatusOK, "Logout Successful")
}
