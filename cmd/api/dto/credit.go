package dto

// GrantCreditsRequest 는 관리자 크레딧 부여 요청 스키마다.
type GrantCreditsRequest struct {
	Amount int    `json:"amount" binding:"required,min=1" example:"10"`
	Reason string `json:"reason" example:"admin_grant"`
}
