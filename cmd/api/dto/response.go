package dto

// ErrorResponseDTO 는 공통 에러 응답 형식이다. error 는 기계용 코드, message 는 사용자에게 보여줄 문장이다.
type ErrorResponseDTO struct {
	Error   string `json:"error" example:"insufficient_credits"`
	Message string `json:"message" example:"Not enough credits to perform analysis"`
}

// MessageResponseDTO 는 단순 메시지 응답 형식이다.
type MessageResponseDTO struct {
	Message string `json:"message" example:"analysis cancelled"`
}
