package dto

// StartAnalysisRequest 는 POST /analyses 요청 바디다.
type StartAnalysisRequest struct {
	URL string `json:"url" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
}
