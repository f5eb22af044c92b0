package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jefferson-ssantos/monitor-ipu/internal/apierrors"
	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
	"github.com/jefferson-ssantos/monitor-ipu/internal/repository"
)

// Handler exposes HTTP endpoints for authentication.
type Handler struct {
	jwtMgr   *JWTManager
	userRepo repository.UserRepository
}

// NewHandler creates a new auth Handler.
func NewHandler(jwtMgr *JWTManager, userRepo repository.UserRepository) *Handler {
	return &Handler{jwtMgr: jwtMgr, userRepo: userRepo}
}

// LoginRequest is the payload for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the standard response containing a JWT.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo is a safe subset of profile data returned in API responses.
type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	ClienteID int    `json:"cliente_id"`
}

func toUserInfo(p *model.Profile) UserInfo {
	return UserInfo{ID: p.ID.String(), Email: p.Email, ClienteID: p.ClienteID}
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.NewBadRequestError("invalid request body").Write(w, r)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		apierrors.NewValidationError("email and password are required", nil).Write(w, r)
		return
	}

	user, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil || user == nil {
		apierrors.NewUnauthorizedError("invalid email or password").Write(w, r)
		return
	}
	if !user.Active {
		apierrors.NewForbiddenError("account is deactivated").Write(w, r)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		apierrors.NewUnauthorizedError("invalid email or password").Write(w, r)
		return
	}

	token, err := h.jwtMgr.GenerateToken(user.ID, user.ClienteID, user.Email)
	if err != nil {
		apierrors.NewInternalError("failed to generate token").Write(w, r)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(h.jwtMgr.Expiry()),
		User:      toUserInfo(user),
	})
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.NewUnauthorizedError("authentication required").Write(w, r)
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		apierrors.NewUnauthorizedError("user not found").Write(w, r)
		return
	}

	writeJSON(w, http.StatusOK, toUserInfo(user))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
