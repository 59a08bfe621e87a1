package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursecraft/coursecraft-backend/internal/apierr"
	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/repos"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *types.User, error)
	Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, error)
	ParseToken(tokenString string) (uuid.UUID, error)
}

type authService struct {
	log       *logger.Logger
	userRepo  repos.UserRepo
	usageRepo repos.GenerationUsageRepo
	secret    []byte
	tokenTTL  time.Duration
}

func NewAuthService(baseLog *logger.Logger, userRepo repos.UserRepo, usageRepo repos.GenerationUsageRepo) (AuthService, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	return &authService{
		log:       baseLog.With("service", "AuthService"),
		userRepo:  userRepo,
		usageRepo: usageRepo,
		secret:    []byte(secret),
		tokenTTL:  24 * time.Hour,
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, apierr.Validation(fmt.Errorf("email and password are required"))
	}
	user, err := s.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return "", nil, apierr.Persistence(fmt.Errorf("load user: %w", err))
	}
	if user == nil {
		return "", nil, apierr.Auth(fmt.Errorf("invalid credentials"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apierr.Auth(fmt.Errorf("invalid credentials"))
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apierr.Validation(fmt.Errorf("email and password are required"))
	}
	existing, err := s.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("load user: %w", err))
	}
	if existing != nil {
		return nil, apierr.Validation(fmt.Errorf("email already registered"))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &types.User{
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}
	if _, err := s.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return nil, apierr.Persistence(fmt.Errorf("create user: %w", err))
	}

	// Quota admission requires a usage row to exist, so it is seeded here.
	usage := &types.GenerationUsage{UserID: user.ID, FreeGenerationsUsed: 0}
	if _, err := s.usageRepo.Create(ctx, nil, []*types.GenerationUsage{usage}); err != nil {
		return nil, apierr.Persistence(fmt.Errorf("seed generation usage: %w", err))
	}
	return user, nil
}

func (s *authService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apierr.Auth(fmt.Errorf("invalid token"))
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, apierr.Auth(fmt.Errorf("invalid token claims"))
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, apierr.Auth(fmt.Errorf("invalid subject claim"))
	}
	return userID, nil
}
