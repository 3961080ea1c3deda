package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/api/dto"
	"yt-insight/cmd/internal/logger"
	"yt-insight/models"
	"yt-insight/repositories"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Insert(ctx context.Context, a models.Account) error
}

type ProfileProvisioner interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error)
}

type AuthService struct {
	accounts   AccountStore
	profiles   ProfileProvisioner
	jwtManager *auth.JWTManager
}

func NewAuthService(accounts AccountStore, profiles ProfileProvisioner, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{accounts: accounts, profiles: profiles, jwtManager: jwtManager}
}

// Signup 은 계정과 프로필(가입 크레딧 포함)을 만들고 액세스 토큰을 발급한다.
func (s *AuthService) Signup(ctx context.Context, in dto.SignupRequest) (dto.TokenResponseDTO, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return dto.TokenResponseDTO{}, err
	}

	account := models.Account{
		UID:          uuid.New().String(),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Role:         auth.RoleUser,
	}
	if err := s.accounts.Insert(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return dto.TokenResponseDTO{}, ErrEmailTaken
		}
		return dto.TokenResponseDTO{}, fmt.Errorf("account insert: %w", err)
	}

	if _, err := s.profiles.CreateProfile(ctx, models.UserProfile{
		UID:                account.UID,
		Email:              strings.ToLower(account.Email),
		FullName:           in.FullName,
		YouTubeChannelName: in.YouTubeChannelName,
	}); err != nil {
		// 계정은 이미 만들어졌으므로 다음 로그인 때 프로필을 다시 만든다.
		return dto.TokenResponseDTO{}, fmt.Errorf("profile create: %w", err)
	}

	return s.issue(account.UID, account.Role)
}

// Login 은 비밀번호를 확인하고 토큰을 발급한다. 프로필이 없으면 이 때 만든다.
func (s *AuthService) Login(ctx context.Context, in dto.LoginRequest) (dto.TokenResponseDTO, error) {
	account, err := s.accounts.FindByEmail(ctx, in.Email)
	if err != nil {
		return dto.TokenResponseDTO{}, fmt.Errorf("account lookup: %w", err)
	}
	if account == nil {
		return dto.TokenResponseDTO{}, ErrInvalidCredentials
	}
	if err := auth.CheckPassword(account.PasswordHash, in.Password); err != nil {
		return dto.TokenResponseDTO{}, ErrInvalidCredentials
	}

	if err := s.ensureProfile(ctx, *account); err != nil {
		return dto.TokenResponseDTO{}, err
	}
	return s.issue(account.UID, account.Role)
}

func (s *AuthService) ensureProfile(ctx context.Context, a models.Account) error {
	p, err := s.profiles.GetProfile(ctx, a.UID)
	if err != nil {
		return fmt.Errorf("profile lookup: %w", err)
	}
	if p != nil {
		return nil
	}
	logger.WarnWithFields("profile missing at login, recreating", logger.Fields{"uid": a.UID})
	if _, err := s.profiles.CreateProfile(ctx, models.UserProfile{UID: a.UID, Email: a.Email}); err != nil {
		return fmt.Errorf("profile create: %w", err)
	}
	return nil
}

func (s *AuthService) issue(uid, role string) (dto.TokenResponseDTO, error) {
	token, err := s.jwtManager.Sign(uid, role)
	if err != nil {
		return dto.TokenResponseDTO{}, fmt.Errorf("jwt sign: %w", err)
	}
	return dto.TokenResponseDTO{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtManager.TTL().Seconds()),
		UID:         uid,
	}, nil
}

func (s *AuthService) ParseAccessToken(token string) (string, string, error) {
	return s.jwtManager.Parse(token)
}
