package dto

// SignupRequest 는 POST /auth/signup 요청 바디다.
type SignupRequest struct {
	Email              string `json:"email" binding:"required,email" example:"creator@example.com"`
	Password           string `json:"password" binding:"required" example:"correct horse battery"`
	FullName           string `json:"full_name" example:"Kim Creator"`
	YouTubeChannelName string `json:"youtube_channel_name" example:"Kim Edits"`
}

// LoginRequest 는 POST /auth/login 요청 바디다.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"creator@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse battery"`
}

// TokenResponseDTO 는 로그인/가입 성공 응답이다.
type TokenResponseDTO struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIs..."`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"86400"`
	UID         string `json:"uid" example:"2f6c1d9e-4b7a-4c1e-9d35-0c8f4a1b2e77"`
}
