package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sitecrew/sitecrew-backend-go/internal/domain/auth"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/user"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	userRepo   user.UserRepository
	jwtService jwt.Service
	logger     *slog.Logger
}

func NewAuthService(userRepo user.UserRepository, jwtService jwt.Service, logger *slog.Logger) auth.AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	req.Email = auth.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	email := req.Email

	_, err := a.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return auth.TokenResponse{}, user.ErrUserEmailExists
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := a.userRepo.Create(ctx, user.User{Email: email, PasswordHash: hashed})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	a.logger.InfoContext(ctx, "user registered", slog.String("user_id", newUser.ID))
	return a.issueToken(newUser)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	req.Email = auth.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueToken(userData)
}

func (a *AuthServiceImpl) issueToken(u user.User) (auth.TokenResponse, error) {
	token, expiresAt, err := a.jwtService.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		UserID:               u.ID,
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
	}, nil
}
