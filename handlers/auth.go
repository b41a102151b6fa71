package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/camden-git/campaidbackend/models"
	"github.com/camden-git/campaidbackend/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenIssuer = "campaidbackend"

type AuthHandler struct {
	UserRepo   repository.UserRepository
	Secret     []byte
	Expiration time.Duration
}

func NewAuthHandler(userRepo repository.UserRepository, secret []byte, expiration time.Duration) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Secret: secret, Expiration: expiration}
}

type LoginPayload struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// issueToken signs an HS256 token whose subject is the user id.
func (h *AuthHandler) issueToken(user *models.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(h.Expiration)
	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.Secret)
	return signed, expiresAt, err
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if _, err := decodeBody(w, r, &payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if msgs := validationMessages(payload); msgs != nil {
		WriteAPIErrors(w, http.StatusBadRequest, CodeValidation, msgs)
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil || !user.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid username or password")
		return
	}

	token, expiresAt, err := h.issueToken(user, time.Now())
	if err != nil {
		zap.L().Error("failed to sign token", zap.Uint("user_id", user.ID), zap.Error(err))
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		User:      *user,
		ExpiresAt: expiresAt,
	})
}

// CurrentUser returns the authenticated user. It must run behind AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Could not retrieve user from context")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
