package services

import (
	"context"
	"errors"

	"yt-insight/cmd/api/dto"
	"yt-insight/models"
)

var ErrReportNotFound = errors.New("report not found")

type ReportReader interface {
	GetReports(ctx context.Context, userID string) ([]models.Report, error)
	GetReport(ctx context.Context, userID, reportID string) (*models.Report, error)
}

type ReportService struct {
	reports ReportReader
}

func NewReportService(r ReportReader) *ReportService {
	return &ReportService{reports: r}
}

// List 는 uid 의 리포트를 최신순으로 요약해 돌려준다.
func (s *ReportService) List(ctx context.Context, uid string) ([]dto.ReportSummaryDTO, error) {
	reports, err := s.reports.GetReports(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportSummaryDTO, 0, len(reports))
	for _, r := range reports {
		out = append(out, dto.NewReportSummaryDTO(r))
	}
	return out, nil
}

// Get 은 다른 사용자의 리포트도 ErrReportNotFound 로 숨긴다.
func (s *ReportService) Get(ctx context.Context, uid, reportID string) (dto.ReportDetailDTO, error) {
	r, err := s.reports.GetReport(ctx, uid, reportID)
	if err != nil {
		return dto.ReportDetailDTO{}, err
	}
	if r == nil {
		return dto.ReportDetailDTO{}, ErrReportNotFound
	}
	return dto.NewReportDetailDTO(*r), nil
}
