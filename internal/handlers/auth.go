package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/findosh/folio/internal/services/auth"
)

// Register creates a user account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input auth.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	user, err := h.authService.Register(input)
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		jsonError(w, err.Error(), http.StatusConflict, nil)
		return
	case errors.Is(err, auth.ErrInvalidInput):
		jsonError(w, err.Error(), http.StatusBadRequest, nil)
		return
	case err != nil:
		h.logger.WithError(err).Error("registration failed")
		jsonError(w, "Registration failed", http.StatusInternalServerError, nil)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login issues a session token as a cookie and in the response body
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input auth.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	result, err := h.authService.Login(input)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		jsonError(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("login failed")
		jsonError(w, "Login failed", http.StatusInternalServerError, nil)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Expires,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, result)
}
