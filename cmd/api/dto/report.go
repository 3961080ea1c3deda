package dto

import (
	"time"

	"yt-insight/models"
)

// ReportSummaryDTO 는 대시보드 목록의 한 줄이다.
type ReportSummaryDTO struct {
	ID                   string    `json:"id" example:"665f1c2e9b1d4a0012345678"`
	VideoID              string    `json:"videoId" example:"dQw4w9WgXcQ"`
	VideoTitle           string    `json:"videoTitle" example:"How I edit my videos"`
	VideoURL             string    `json:"videoUrl" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	CreatedAt            time.Time `json:"createdAt"`
	OverallSentiment     string    `json:"overallSentiment" example:"Positive"`
	TopThemes            []string  `json:"topThemes"`
	CommunityHealthScore float64   `json:"communityHealthScore" example:"8"`
	CommunityHealthBand  string    `json:"communityHealthBand" example:"high"`
}

// ReportDetailDTO 는 저장된 리포트 전체와 화면용 파생 값이다.
type ReportDetailDTO struct {
	models.Report
	CommunityHealthBand      string                 `json:"communityHealthBand" example:"medium"`
	ConstructiveCriticism    []models.CriticismItem `json:"constructiveCriticism"`
	NonConstructiveCriticism []models.CriticismItem `json:"nonConstructiveCriticism"`
}

func NewReportSummaryDTO(r models.Report) ReportSummaryDTO {
	data := r.ReportData
	return ReportSummaryDTO{
		ID:                   r.ID.Hex(),
		VideoID:              r.VideoID,
		VideoTitle:           r.VideoTitle,
		VideoURL:             r.VideoURL,
		CreatedAt:            r.CreatedAt,
		OverallSentiment:     data.AtAGlanceSummary.OverallSentiment,
		TopThemes:            data.AtAGlanceSummary.TopThemes,
		CommunityHealthScore: data.AudienceInsights.CommunityHealthScore,
		CommunityHealthBand:  string(data.HealthBand()),
	}
}

func NewReportDetailDTO(r models.Report) ReportDetailDTO {
	constructive, other := r.ReportData.SplitCriticism()
	return ReportDetailDTO{
		Report:                   r,
		CommunityHealthBand:      string(r.ReportData.HealthBand()),
		ConstructiveCriticism:    constructive,
		NonConstructiveCriticism: other,
	}
}
