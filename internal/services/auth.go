package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chanotech/chanote-backend/internal/data/repos"
	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
	"github.com/chanotech/chanote-backend/internal/platform/envutil"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type AccessClaims struct {
	UserID uuid.UUID
	Role   types.Role
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
	ParseAccessToken(token string) (*AccessClaims, error)
}

type authService struct {
	log       *logger.Logger
	userRepo  repos.UserRepo
	tokenRepo repos.UserTokenRepo

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, tokenRepo repos.UserTokenRepo) (AuthService, error) {
	secret := envutil.String("JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return &authService{
		log:        log.With("service", "AuthService"),
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		secret:     []byte(secret),
		accessTTL:  time.Duration(envutil.Int("JWT_ACCESS_TTL_MINUTES", 60)) * time.Minute,
		refreshTTL: time.Duration(envutil.Int("JWT_REFRESH_TTL_HOURS", 24*14)) * time.Hour,
	}, nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*types.User, *TokenPair, error) {
	dbc := dbctx.Context{Ctx: ctx}

	if in.Email == "" || in.Password == "" {
		return nil, nil, fmt.Errorf("email and password are required")
	}
	if len(in.Password) < 8 {
		return nil, nil, fmt.Errorf("password must be at least 8 characters")
	}

	exists, err := s.userRepo.EmailExists(dbc, in.Email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, fmt.Errorf("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	users, err := s.userRepo.Create(dbc, []*types.User{{
		ID:        uuid.New(),
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Role:      types.RoleCustomer,
	}})
	if err != nil {
		return nil, nil, err
	}
	user := users[0]

	pair, err := s.issueTokens(dbc, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	dbc := dbctx.Context{Ctx: ctx}

	user, err := s.userRepo.GetByEmail(dbc, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(dbc, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) issueTokens(dbc dbctx.Context, user *types.User) (*TokenPair, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.accessTTL)

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	})
	accessStr, err := access.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshStr := uuid.NewString()

	if err := s.tokenRepo.DeleteByUserID(dbc, user.ID); err != nil {
		return nil, err
	}
	if _, err := s.tokenRepo.Create(dbc, &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  accessStr,
		RefreshToken: refreshStr,
		ExpiresAt:    now.Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessStr,
		RefreshToken: refreshStr,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *authService) ParseAccessToken(token string) (*AccessClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}
	role, _ := claims["role"].(string)

	return &AccessClaims{UserID: userID, Role: types.Role(role)}, nil
}
