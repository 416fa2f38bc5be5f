package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/utils"
	"github.com/MKhiriev/golden-glimpses/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var in models.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, "*Handler.register", fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	user, err := h.services.AuthService.RegisterUser(ctx, in)
	if err != nil {
		writeError(w, r, "*Handler.register", err)
		return
	}

	tokens, err := h.services.AuthService.IssueTokens(ctx, user)
	if err != nil {
		writeError(w, r, "*Handler.register", err)
		return
	}

	log.Info().Str("user_id", user.UserID).Msg("user registered")

	setAuthorizationHeader(w, tokens)
	utils.WriteJSON(w, models.AuthResponse{User: user, Tokens: tokens}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeError(w, r, "*Handler.login", fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	tokens, err := h.services.AuthService.Login(r.Context(), credentials)
	if err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	setAuthorizationHeader(w, tokens)
	utils.WriteJSON(w, tokens, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "*Handler.refresh", fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	tokens, err := h.services.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, "*Handler.refresh", err)
		return
	}

	setAuthorizationHeader(w, tokens)
	utils.WriteJSON(w, tokens, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "*Handler.logout", fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	if err := h.services.AuthService.Logout(r.Context(), req.RefreshToken); err != nil {
		writeError(w, r, "*Handler.logout", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func setAuthorizationHeader(w http.ResponseWriter, tokens models.TokenPair) {
	w.Header().Set("Authorization", fmt.Sprintf("%s %s", tokens.TokenType, tokens.AccessToken))
}
