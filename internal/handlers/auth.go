package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/BradenHooton/bastion/internal/auth"
	"github.com/BradenHooton/bastion/internal/models"
	"github.com/BradenHooton/bastion/internal/services"
	pkghttp "github.com/BradenHooton/bastion/pkg/http"
	"github.com/go-chi/chi/v5"
)

// LoginServiceInterface defines the interface for the login policy engine
type LoginServiceInterface interface {
	AttemptLogin(ctx context.Context, attempt services.LoginAttempt) (*models.Decision, error)
	Register(ctx context.Context, username, password, ipAddress string) (*models.CredentialRecord, error)
	ResetLockout(ctx context.Context, username, actorIP string) error
}

// AuthHandler handles login, registration, and lockout administration
type AuthHandler struct {
	service  LoginServiceInterface
	tokens   *auth.TokenManager
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service LoginServiceInterface, tokens *auth.TokenManager, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		tokens:   tokens,
		ipConfig: ipConfig,
	}
}

// Request DTOs

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginResponse represents the outcome of a login attempt. Token is present
// only when the attempt was allowed.
type LoginResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// RegisterResponse represents a successful registration
type RegisterResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// denialStatusCode maps a denial reason to an HTTP status. Credential
// denials are 401; policy denials are 403.
func denialStatusCode(reason models.ReasonCode) int {
	switch reason {
	case models.ReasonDeniedNoSuchUser, models.ReasonDeniedBadPassword:
		return http.StatusUnauthorized
	default:
		return http.StatusForbidden
	}
}

// Login handles a login attempt
// @Summary Attempt login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 401 {object} LoginResponse
// @Failure 403 {object} LoginResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	attempt := services.LoginAttempt{
		Username:  strings.TrimSpace(req.Username),
		Password:  req.Password,
		IPAddress: pkghttp.ExtractClientIP(r, h.ipConfig),
		UserAgent: r.Header.Get("User-Agent"),
	}

	decision, err := h.service.AttemptLogin(r.Context(), attempt)
	if err != nil {
		// Infrastructure failure: no decision was rendered, so the response
		// must never look like a denial.
		pkghttp.WriteInternalError(w, "Unable to process login attempt")
		return
	}

	resp := LoginResponse{
		Allowed: decision.Allowed,
		Reason:  string(decision.Reason),
		Message: decision.Message,
	}

	if !decision.Allowed {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(denialStatusCode(decision.Reason))
		json.NewEncoder(w).Encode(resp)
		return
	}

	token, err := h.tokens.GenerateSessionToken(attempt.Username)
	if err != nil {
		pkghttp.WriteInternalError(w, "Unable to establish session")
		return
	}
	resp.Token = token

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Register handles user registration
// @Summary Register a new user
// @Accept json
// @Param request body RegisterRequest true "Register request"
// @Produce json
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 409 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	rec, err := h.service.Register(r.Context(), req.Username, req.Password, ipAddress)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "Username is already taken")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, err.Error())
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(RegisterResponse{
		Username:  rec.Username,
		CreatedAt: rec.CreatedAt,
	})
}

// Unlock handles administrative lockout reset
// @Summary Reset a user's lockout state
// @Param username path string true "Username"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /admin/unlock/{username} [post]
func (h *AuthHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		pkghttp.WriteBadRequest(w, "Username is required")
		return
	}

	actorIP := pkghttp.ExtractClientIP(r, h.ipConfig)

	if err := h.service.ResetLockout(r.Context(), username, actorIP); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Lockout cleared",
	})
}
