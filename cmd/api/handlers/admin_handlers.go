package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/api/dto"
	"yt-insight/cmd/api/services"
)

// GrantCreditsHandler godoc
// @Summary      크레딧 지급 (관리자)
// @Description  대상 사용자에게 크레딧을 더합니다. 변경은 프로필 스트림으로도 전달됩니다.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        uid   path      string                   true  "대상 사용자 uid"
// @Param        body  body      dto.GrantCreditsRequest  true  "지급량과 사유"
// @Success      200   {object}  dto.UserProfileDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      401   {object}  dto.ErrorResponseDTO
// @Failure      403   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /admin/users/{uid}/credits [post]
func GrantCreditsHandler(profileSvc *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GrantCreditsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		profile, err := profileSvc.GrantCredits(c.Request.Context(), auth.UID(c), c.Param("uid"), req)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				respondError(c, http.StatusNotFound, "user_not_found", err.Error())
				return
			}
			respondInternal(c, "failed_to_grant_credits", err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
