package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rolurq/shopify-backend-challenge/internal/auth"
	"github.com/rolurq/shopify-backend-challenge/internal/domain"
)

type Identity interface {
	Signup(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

type UserHandler struct {
	identity Identity
	timeout  time.Duration
}

func NewUserHandler(identity Identity, timeout time.Duration) *UserHandler {
	return &UserHandler{
		identity: identity,
		timeout:  timeout,
	}
}

type CredentialsDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.identity.Signup(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			respondError(w, http.StatusConflict, "username_taken", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "signup failed")
		return
	}

	respondJSON(w, http.StatusCreated, TokenResponse{Token: token})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.identity.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "user_not_found", err.Error())
		case errors.Is(err, auth.ErrWrongPassword):
			respondError(w, http.StatusUnauthorized, "wrong_password", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "login failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// CurrentUser serves the account behind the bearer token.
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "you must be logged in to access your user data")
		return
	}

	fresh, err := h.identity.UserByID(ctx, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load user")
		return
	}

	respondJSON(w, http.StatusOK, fresh)
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsDTO, bool) {
	var creds CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return creds, false
	}
	if creds.Username == "" || creds.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_credentials", "username and password are required")
		return creds, false
	}
	return creds, true
}
