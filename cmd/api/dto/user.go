package dto

import (
	"time"

	"yt-insight/models"
)

// UserProfileDTO 는 /api/v1/users/profile 응답 스키마다.
type UserProfileDTO struct {
	UID                string `json:"uid" example:"2f6c1d9e-4b7a-4c1e-9d35-0c8f4a1b2e77"`
	Email              string `json:"email" example:"creator@example.com"`
	FullName           string `json:"full_name" example:"Kim Creator"`
	YouTubeChannelName string `json:"youtube_channel_name" example:"Kim Edits"`
	Address            string `json:"address" example:"Seoul"`
	PhoneNumber        string `json:"phone_number" example:"010-0000-0000"`
	Credits            int    `json:"credits" example:"2"`
	CreatedAt          string `json:"created_at" example:"2025-01-01T12:00:00Z"`
}

func NewUserProfileDTO(p models.UserProfile) UserProfileDTO {
	return UserProfileDTO{
		UID:                p.UID,
		Email:              p.Email,
		FullName:           p.FullName,
		YouTubeChannelName: p.YouTubeChannelName,
		Address:            p.Address,
		PhoneNumber:        p.PhoneNumber,
		Credits:            p.Credits,
		CreatedAt:          p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// UpdateProfileRequest 는 PATCH /users/profile 요청 바디다. 생략한 필드는 바뀌지 않는다.
type UpdateProfileRequest struct {
	FullName           *string `json:"full_name" example:"Kim Creator"`
	YouTubeChannelName *string `json:"youtube_channel_name" example:"Kim Edits"`
	Address            *string `json:"address" example:"Seoul"`
	PhoneNumber        *string `json:"phone_number" example:"010-0000-0000"`
}

func (r UpdateProfileRequest) ToModel() models.ProfileUpdate {
	return models.ProfileUpdate{
		FullName:           r.FullName,
		YouTubeChannelName: r.YouTubeChannelName,
		Address:            r.Address,
		PhoneNumber:        r.PhoneNumber,
	}
}
