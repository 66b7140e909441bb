package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"buzzboard/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type AuthService struct {
	db       *gorm.DB
	sessions *SessionStore
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, sessions *SessionStore, jwtSecret string, ttl time.Duration) *AuthService {
	return &AuthService{
		db:       db,
		sessions: sessions,
		secret:   []byte(jwtSecret),
		ttl:      ttl,
		now:      time.Now,
	}
}

type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionClaims is the payload of an instructor session token.
type SessionClaims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Session is an issued token together with its parsed claims.
type Session struct {
	Token     string
	Claims    *SessionClaims
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(name) < 2 {
		return nil, InvalidInputf("name must be at least 2 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, InvalidInputf("please enter a valid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, InvalidInputf("password must be at least %d characters", minPasswordLength)
	}
	if req.Password != req.ConfirmPassword {
		return nil, InvalidInputf("passwords do not match")
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, InvalidInputf("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, InvalidInputf("an account with this email already exists")
		}
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and issues a session. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*Session, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, Unauthorizedf("invalid email or password")
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, Unauthorizedf("invalid email or password")
	}

	session, err := s.issue(&user)
	if err != nil {
		return nil, nil, err
	}
	return session, &user, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return &Session{Token: token, Claims: claims, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, Unauthorizedf("invalid or expired session")
	}
	return claims, nil
}

// Authenticate resolves a session token to its claims, rejecting revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*SessionClaims, error) {
	if token == "" {
		return nil, Unauthorizedf("authentication required")
	}
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	if s.sessions != nil {
		revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check session: %w", err)
		}
		if revoked {
			return nil, Unauthorizedf("session has been signed out")
		}
	}
	return claims, nil
}

// Logout revokes the token. A token that no longer parses needs no revocation.
func (s *AuthService) Logout(ctx context.Context, token string) {
	claims, err := s.parse(token)
	if err != nil || s.sessions == nil {
		return
	}
	if err := s.sessions.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		log.Printf("[auth] failed to revoke session %s: %v", claims.ID, err)
	}
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorizedf("account no longer exists")
		}
		return nil, err
	}
	return &user, nil
}
