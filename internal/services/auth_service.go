package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/audit"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/security"
	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrRateLimited        = errors.New("too many login attempts")
)

// User is a console account. Accounts live in memory; the persistent
// user store sits behind the presentation boundary.
type User struct {
	ID           uuid.UUID
	TenantID     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type refreshToken struct {
	tenantID  string
	userID    uuid.UUID
	expiresAt time.Time
	revoked   bool
}

// AuthService handles registration, login and token refresh. Login
// attempts are rate limited per tenant+email and every outcome is
// audited.
type AuthService struct {
	cfg      *config.Config
	issuer   *security.TokenIssuer
	limiter  *ratelimit.Limiter
	auditLog *audit.Log

	mu      sync.RWMutex
	users   map[string]map[string]*User // tenant id -> email -> user
	refresh map[string]*refreshToken    // token hash -> record
}

func NewAuthService(cfg *config.Config, issuer *security.TokenIssuer, limiter *ratelimit.Limiter, auditLog *audit.Log) *AuthService {
	return &AuthService{
		cfg:      cfg,
		issuer:   issuer,
		limiter:  limiter,
		auditLog: auditLog,
		users:    make(map[string]map[string]*User),
		refresh:  make(map[string]*refreshToken),
	}
}

func (s *AuthService) Register(tenantID string, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	hash, err := security.HashCredential(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "user",
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	byEmail, ok := s.users[tenantID]
	if !ok {
		byEmail = make(map[string]*User)
		s.users[tenantID] = byEmail
	}
	if _, exists := byEmail[req.Email]; exists {
		s.mu.Unlock()
		return nil, ErrEmailTaken
	}
	byEmail[req.Email] = user
	s.mu.Unlock()

	s.auditLog.Append(tenantID, user.ID.String(), "auth.register", "user", user.ID.String(), nil, "", "")
	return s.generateTokenPair(tenantID, user)
}

func (s *AuthService) Login(tenantID string, req *dto.LoginRequest, ip, userAgent string) (*dto.AuthResponse, error) {
	key := tenantID + ":" + req.Email
	if !s.limiter.Allow(key, s.cfg.LoginRateLimit, s.cfg.LoginRateWindow) {
		s.auditLog.Append(tenantID, "", "auth.login_rate_limited", "user", "", map[string]any{"email": req.Email}, ip, userAgent)
		return nil, ErrRateLimited
	}

	s.mu.RLock()
	user := s.users[tenantID][req.Email]
	s.mu.RUnlock()

	if user == nil || !security.VerifyCredential(req.Password, user.PasswordHash) {
		s.auditLog.Append(tenantID, "", "auth.login_failed", "user", "", map[string]any{"email": req.Email}, ip, userAgent)
		return nil, ErrInvalidCredentials
	}

	s.auditLog.Append(tenantID, user.ID.String(), "auth.login", "user", user.ID.String(), nil, ip, userAgent)
	return s.generateTokenPair(tenantID, user)
}

func (s *AuthService) Refresh(tenantID string, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	s.mu.Lock()
	stored, ok := s.refresh[tokenHash]
	if !ok || stored.revoked || stored.tenantID != tenantID {
		s.mu.Unlock()
		return nil, ErrInvalidToken
	}
	stored.revoked = true
	if time.Now().After(stored.expiresAt) {
		s.mu.Unlock()
		return nil, ErrInvalidToken
	}

	var user *User
	for _, u := range s.users[tenantID] {
		if u.ID == stored.userID {
			user = u
			break
		}
	}
	s.mu.Unlock()

	if user == nil {
		return nil, ErrInvalidToken
	}
	return s.generateTokenPair(tenantID, user)
}

func (s *AuthService) Logout(tenantID string, req *dto.LogoutRequest) {
	tokenHash := hashToken(req.RefreshToken)

	s.mu.Lock()
	if stored, ok := s.refresh[tokenHash]; ok && stored.tenantID == tenantID {
		stored.revoked = true
	}
	s.mu.Unlock()
}

// SeedUser registers a pre-hashed account, used at startup and in tests.
func (s *AuthService) SeedUser(tenantID, email, password, role string) (*User, error) {
	hash, err := security.HashCredential(password)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	byEmail, ok := s.users[tenantID]
	if !ok {
		byEmail = make(map[string]*User)
		s.users[tenantID] = byEmail
	}
	byEmail[email] = user
	s.mu.Unlock()
	return user, nil
}

func (s *AuthService) generateTokenPair(tenantID string, user *User) (*dto.AuthResponse, error) {
	accessToken, err := s.issuer.Issue(map[string]any{
		"sub":       user.ID.String(),
		"email":     user.Email,
		"tenant_id": tenantID,
		"role":      user.Role,
	}, s.cfg.JWTAccessExpiry)
	if err != nil {
		return nil, err
	}

	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	s.mu.Lock()
	s.refresh[hashToken(rawToken)] = &refreshToken{
		tenantID:  tenantID,
		userID:    user.ID,
		expiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	s.mu.Unlock()

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: rawToken,
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
