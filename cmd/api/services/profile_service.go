package services

import (
	"context"
	"sync"

	"yt-insight/cmd/api/dto"
	"yt-insight/cmd/internal/logger"
	"yt-insight/models"
)

type ProfileGateway interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, uid string, u models.ProfileUpdate) (*models.UserProfile, error)
	GrantCredits(ctx context.Context, uid string, n int) (*models.UserProfile, error)
	Subscribe(uid string) (<-chan models.UserProfile, func())
}

type ProfileService struct {
	gw ProfileGateway
}

func NewProfileService(gw ProfileGateway) *ProfileService {
	return &ProfileService{gw: gw}
}

func (s *ProfileService) GetProfile(ctx context.Context, uid string) (dto.UserProfileDTO, error) {
	p, err := s.gw.GetProfile(ctx, uid)
	if err != nil {
		return dto.UserProfileDTO{}, err
	}
	if p == nil {
		return dto.UserProfileDTO{}, ErrUserNotFound
	}
	return dto.NewUserProfileDTO(*p), nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, uid string, in dto.UpdateProfileRequest) (dto.UserProfileDTO, error) {
	p, err := s.gw.UpdateProfile(ctx, uid, in.ToModel())
	if err != nil {
		return dto.UserProfileDTO{}, err
	}
	if p == nil {
		return dto.UserProfileDTO{}, ErrUserNotFound
	}
	return dto.NewUserProfileDTO(*p), nil
}

// GrantCredits 는 관리자 부여 경로다. reason 은 감사 로그로만 남긴다.
func (s *ProfileService) GrantCredits(ctx context.Context, adminUID, uid string, in dto.GrantCreditsRequest) (dto.UserProfileDTO, error) {
	p, err := s.gw.GrantCredits(ctx, uid, in.Amount)
	if err != nil {
		return dto.UserProfileDTO{}, err
	}
	if p == nil {
		return dto.UserProfileDTO{}, ErrUserNotFound
	}
	logger.InfoWithFields("credits granted", logger.Fields{
		"admin_uid": adminUID,
		"uid":       uid,
		"amount":    in.Amount,
		"reason":    in.Reason,
		"balance":   p.Credits,
	})
	return dto.NewUserProfileDTO(*p), nil
}

// Subscribe 는 uid 의 프로필 변경을 DTO 로 흘려보낸다. stop 을 부르면 채널이 닫힌다.
func (s *ProfileService) Subscribe(uid string) (<-chan dto.UserProfileDTO, func()) {
	src, stop := s.gw.Subscribe(uid)
	out := make(chan dto.UserProfileDTO)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for p := range src {
			select {
			case out <- dto.NewUserProfileDTO(p):
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			stop()
		})
	}
}
