package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"invitame/internal/domains"
	"invitame/internal/storage"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

var ErrCredentialsMissing = errors.New("email and password are required")

type AuthService struct {
	provider AuthProvider
	secret   string
}

type AuthProvider interface {
	SaveUser(ctx context.Context, passHash string, acc domains.Account) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (domains.Account, error)
	GetUserByID(ctx context.Context, id int64) (domains.Account, error)
}

func NewAuthService(provider AuthProvider, secret string) *AuthService {
	return &AuthService{
		provider: provider,
		secret:   secret,
	}
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (string, string, error) {
	user, err := s.provider.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrUserNotFound) {
		return "", "", PasswordIncorrect
	}
	if err != nil {
		slog.Error("fetch user failed", "err", err)
		return "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", PasswordIncorrect
	}

	accessToken, refreshToken, err := s.GenerateTokens(user)
	if err != nil {
		slog.Error("auth: failed to generate tokens", "err", err)
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *AuthService) GenerateTokens(user domains.Account) (accessToken string, refreshToken string, err error) {
	sub := strconv.FormatInt(user.ID, 10)
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"sub":  sub,
		"exp":  now.Add(accessTTL).Unix(),
		"type": "access",
	}
	accessToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.secret))
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"sub":  sub,
		"exp":  now.Add(refreshTTL).Unix(),
		"type": "refresh",
	}
	refreshToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.secret))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *AuthService) Register(ctx context.Context, acc domains.Account) (int64, error) {
	acc.Email = strings.TrimSpace(acc.Email)
	if acc.Email == "" || acc.Password == "" {
		return 0, ErrCredentialsMissing
	}
	passHash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("create password hash failed", "err", err)
		return 0, err
	}
	acc.Role = domains.RoleCustomer

	id, err := s.provider.SaveUser(ctx, string(passHash), acc)
	if err != nil {
		if !errors.Is(err, storage.ErrUserExist) {
			slog.Error("save user failed", "err", err)
		}
		return 0, err
	}
	return id, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	sub, claims, err := s.validateAndGetSubByToken(refreshToken)
	if err != nil || claims["type"] != "refresh" {
		return "", "", TokenIncorrect
	}

	user, err := s.provider.GetUserByID(ctx, sub)
	if err != nil {
		return "", "", err
	}
	return s.GenerateTokens(user)
}

func (s *AuthService) Me(ctx context.Context, token string) (domains.Account, error) {
	sub, _, err := s.validateAndGetSubByToken(token)
	if err != nil {
		return domains.Account{}, err
	}
	user, err := s.provider.GetUserByID(ctx, sub)
	if err != nil {
		return domains.Account{}, err
	}
	user.Password = ""
	return user, nil
}

func (s *AuthService) validateAndGetSubByToken(initToken string) (int64, jwt.MapClaims, error) {
	token, err := jwt.Parse(initToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return 0, nil, TokenIncorrect
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, nil, errors.New("invalid claims")
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, nil, errors.New("subject missing")
	}
	uid, err := strconv.ParseInt(subStr, 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("subject malformed: %w", err)
	}
	return uid, claims, nil
}
