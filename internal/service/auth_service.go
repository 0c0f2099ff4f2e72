package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"canebill/internal/model"
	"canebill/internal/repository"
	"canebill/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// tokenValidity is deliberately long; the mill office stays logged in across
// the crushing season without re-authenticating daily
const tokenValidity = 20 * 24 * time.Hour

// --- DTOs ---

type RegisterAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// AuthService issues and checks the bearer credentials gating mutation endpoints
type AuthService interface {
	RegisterAdmin(ctx context.Context, req RegisterAdminRequest) error
	Login(ctx context.Context, req LoginAdminRequest) (*TokenResponse, error)
}

type authService struct {
	adminRepo repository.AdminRepository
	jwtSecret []byte
}

func NewAuthService(adminRepo repository.AdminRepository, jwtSecret []byte) AuthService {
	return &authService{adminRepo: adminRepo, jwtSecret: jwtSecret}
}

func (s *authService) RegisterAdmin(ctx context.Context, req RegisterAdminRequest) error {
	username := strings.TrimSpace(req.Username)

	var violations []string
	if username == "" {
		violations = append(violations, "username is required")
	}
	if req.Password == "" {
		violations = append(violations, "password is required")
	}
	if len(violations) > 0 {
		return apperror.Validation(violations...)
	}

	if _, err := s.adminRepo.GetByUsername(ctx, username); err == nil {
		return apperror.Conflict("admin %s already exists", username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Internal("failed to check admin", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}

	admin := &model.Admin{
		Username: username,
		Password: string(hashed),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return apperror.Internal("failed to register admin", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req LoginAdminRequest) (*TokenResponse, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      admin.ID.String(),
		"username": admin.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenValidity).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperror.Internal("failed to sign token", err)
	}

	return &TokenResponse{Token: signed}, nil
}
