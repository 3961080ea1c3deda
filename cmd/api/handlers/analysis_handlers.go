package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/api/dto"
	"yt-insight/cmd/api/services"
	"yt-insight/pipeline"
)

// reportLocation 은 API 안의 리포트 상세 경로다.
func reportLocation(reportID string) string {
	return "/api/v1" + pipeline.ReportPath(reportID)
}

// AnalyzeHandler godoc
// @Summary      영상 댓글 분석 (동기)
// @Description  url 쿼리의 영상을 끝까지 분석하고 성공하면 생성된 리포트로 303 리다이렉트합니다.
// @Description  크레딧은 영상 ID 추출 직후 1 차감되며, 이후 단계가 실패해도 돌려주지 않습니다.
// @Tags         analyses
// @Security     BearerAuth
// @Produce      json
// @Param        url  query  string  true  "YouTube 영상 URL"
// @Success      303  {string}  string  "생성된 리포트로 이동 (Location 헤더)"
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      402  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Router       /analyze [get]
func AnalyzeHandler(analysisSvc *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := analysisSvc.Analyze(c.Request.Context(), auth.UID(c), c.Query("url"))
		if snap.Status != pipeline.StatusCompleted {
			respondSnapshotFailure(c, snap)
			return
		}
		c.Redirect(http.StatusSeeOther, reportLocation(snap.ReportID))
	}
}

// StartAnalysisHandler godoc
// @Summary      영상 댓글 분석 시작 (비동기)
// @Description  분석을 백그라운드로 시작하고 실행 스냅샷을 돌려줍니다. 진행 상황은 GET /analyses/{id} 로 확인합니다.
// @Tags         analyses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StartAnalysisRequest  true  "분석할 영상"
// @Success      202   {object}  pipeline.Snapshot
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      401   {object}  dto.ErrorResponseDTO
// @Router       /analyses [post]
func StartAnalysisHandler(analysisSvc *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.StartAnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		snap := analysisSvc.Start(c.Request.Context(), auth.UID(c), req.URL)
		c.Header("Location", "/api/v1/analyses/"+snap.RunID)
		c.JSON(http.StatusAccepted, snap)
	}
}

// GetAnalysisHandler godoc
// @Summary      분석 실행 상태 조회
// @Description  현재 단계, 상태, 실패 메시지, 완료 시 이동할 리포트 경로와 시각을 돌려줍니다.
// @Tags         analyses
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "실행 ID"
// @Success      200  {object}  pipeline.Snapshot
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /analyses/{id} [get]
func GetAnalysisHandler(analysisSvc *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := analysisSvc.Get(auth.UID(c), c.Param("id"))
		if err != nil {
			respondRunLookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// CancelAnalysisHandler godoc
// @Summary      분석 실행 취소
// @Description  진행 중인 실행을 취소합니다. 이미 차감된 크레딧은 돌려주지 않습니다.
// @Tags         analyses
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "실행 ID"
// @Success      200  {object}  pipeline.Snapshot
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.ErrorResponseDTO
// @Router       /analyses/{id} [delete]
func CancelAnalysisHandler(analysisSvc *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := analysisSvc.Cancel(auth.UID(c), c.Param("id"))
		if err != nil {
			respondRunLookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func respondRunLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pipeline.ErrRunNotFound):
		respondError(c, http.StatusNotFound, "run_not_found", err.Error())
	case errors.Is(err, pipeline.ErrRunFinished):
		respondError(c, http.StatusConflict, "run_finished", err.Error())
	default:
		respondInternal(c, "run_lookup_failed", err)
	}
}
