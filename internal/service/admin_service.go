package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"abs-store/internal/repository"
)

const (
	// BcryptCost is the cost factor for admin password hashes
	BcryptCost = 10

	adminSubject = "admin"
	adminRole    = "admin"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrPasswordTooShort   = errors.New("password too short")
)

// AdminService authenticates the shop owner
type AdminService interface {
	Login(ctx context.Context, password string) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
	// Authenticate is ValidateToken reduced to the subject and role
	Authenticate(tokenString string) (subject, role string, err error)
	ChangePassword(ctx context.Context, newPassword string) error
}

// Claims represents the JWT claims issued to the admin
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminOptions configures AdminService
type AdminOptions struct {
	JWTSecret         string
	TokenTTL          time.Duration
	DefaultPassword   string
	MinPasswordLength int
}

type adminService struct {
	repo   repository.SettingsRepository
	opts   AdminOptions
	now    func() time.Time
	logger *zap.Logger
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(repo repository.SettingsRepository, opts AdminOptions, logger *zap.Logger) AdminService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	return &adminService{
		repo:   repo,
		opts:   opts,
		now:    time.Now,
		logger: logger,
	}
}

// Login checks password against the stored admin password (or the default
// when none was ever set) and issues a signed admin token
func (s *adminService) Login(ctx context.Context, password string) (string, time.Time, error) {
	stored, ok := s.repo.LoadAdminPassword(ctx)
	if !ok {
		stored = s.opts.DefaultPassword
	}

	if !verifyPassword(stored, password) {
		s.logger.Warn("Admin login failed")
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.opts.TokenTTL)
	claims := Claims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("Admin logged in", zap.Time("expires_at", expiresAt))
	return token, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *adminService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.opts.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *adminService) Authenticate(tokenString string) (string, string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Role, nil
}

// ChangePassword stores a bcrypt hash of newPassword
func (s *adminService) ChangePassword(ctx context.Context, newPassword string) error {
	if len([]rune(newPassword)) < s.opts.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.SaveAdminPassword(ctx, string(hash)); err != nil {
		return fmt.Errorf("failed to persist admin password: %w", err)
	}

	s.logger.Info("Admin password changed")
	return nil
}

// verifyPassword accepts bcrypt hashes and legacy plain values
func verifyPassword(stored, candidate string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

func isBcryptHash(s string) bool {
	if _, err := bcrypt.Cost([]byte(s)); err != nil {
		return false
	}
	return strings.HasPrefix(s, "$2")
}
