package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/api/services"
)

// ListReportsHandler godoc
// @Summary      내 리포트 목록
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   dto.ReportSummaryDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /reports [get]
func ListReportsHandler(reportSvc *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reports, err := reportSvc.List(c.Request.Context(), auth.UID(c))
		if err != nil {
			respondInternal(c, "failed_to_list_reports", err)
			return
		}
		c.JSON(http.StatusOK, reports)
	}
}

// GetReportHandler godoc
// @Summary      리포트 상세
// @Description  저장된 분석 결과 전체와 건설적/비건설적 비판 분리, 커뮤니티 건강도 구간을 돌려줍니다.
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "리포트 ObjectID"
// @Success      200  {object}  dto.ReportDetailDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /reports/{id} [get]
func GetReportHandler(reportSvc *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := reportSvc.Get(c.Request.Context(), auth.UID(c), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrReportNotFound) {
				respondError(c, http.StatusNotFound, "report_not_found", err.Error())
				return
			}
			respondInternal(c, "failed_to_load_report", err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
