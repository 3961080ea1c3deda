package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/dto"
	"yt-insight/cmd/api/trace"
	"yt-insight/cmd/internal/logger"
	"yt-insight/pipeline"
)

// failureStatus 는 파이프라인 실패 종류를 HTTP 상태로 바꾼다.
func failureStatus(kind pipeline.ErrorKind) int {
	switch kind {
	case pipeline.KindValidation:
		return http.StatusBadRequest
	case pipeline.KindInsufficientCredits:
		return http.StatusPaymentRequired
	case pipeline.KindNotFound:
		return http.StatusNotFound
	case pipeline.KindRunInProgress:
		return http.StatusConflict
	case pipeline.KindTransport, pipeline.KindGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.ErrorResponseDTO{Error: code, Message: message})
}

// respondInternal 은 원인을 로그에만 남기고 고정된 코드로 500 을 돌려준다.
func respondInternal(c *gin.Context, code string, err error) {
	logger.ErrorWithFields("request failed", logger.Fields{
		"code":       code,
		"path":       c.FullPath(),
		"error":      err.Error(),
		"request_id": trace.RequestIDFromContext(c.Request.Context()),
	})
	respondError(c, http.StatusInternalServerError, code, "internal error")
}

// respondSnapshotFailure 는 끝난 실행의 실패(또는 취소)를 공통 에러 JSON 으로 돌려준다.
func respondSnapshotFailure(c *gin.Context, snap pipeline.Snapshot) {
	if snap.Status == pipeline.StatusCancelled {
		respondError(c, http.StatusConflict, "cancelled", "analysis was cancelled")
		return
	}
	if snap.Failure == nil {
		respondError(c, http.StatusInternalServerError, string(pipeline.KindPersistence), "analysis did not complete")
		return
	}
	respondError(c, failureStatus(snap.Failure.Kind), string(snap.Failure.Kind), snap.Failure.Message)
}
