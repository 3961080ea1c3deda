package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/api/dto"
	"yt-insight/cmd/api/services"
)

const profileStreamKeepAlive = 25 * time.Second

// GetUserProfileHandler godoc
// @Summary      현재 로그인한 사용자 프로필 조회
// @Description  JWT 의 uid 로 프로필과 남은 크레딧을 조회합니다.
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.UserProfileDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /users/profile [get]
func GetUserProfileHandler(profileSvc *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := profileSvc.GetProfile(c.Request.Context(), auth.UID(c))
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				respondError(c, http.StatusNotFound, "user_not_found", err.Error())
				return
			}
			respondInternal(c, "failed_to_load_profile", err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// UpdateUserProfileHandler godoc
// @Summary      프로필 수정
// @Description  보낸 필드만 바꿉니다. 크레딧은 여기서 바꿀 수 없습니다.
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.UpdateProfileRequest  true  "수정할 필드"
// @Success      200   {object}  dto.UserProfileDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      401   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /users/profile [patch]
func UpdateUserProfileHandler(profileSvc *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		profile, err := profileSvc.UpdateProfile(c.Request.Context(), auth.UID(c), req)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				respondError(c, http.StatusNotFound, "user_not_found", err.Error())
				return
			}
			respondInternal(c, "failed_to_update_profile", err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// StreamUserProfileHandler godoc
// @Summary      프로필 실시간 구독 (SSE)
// @Description  현재 프로필을 먼저 보내고, 이후 크레딧 차감 등 변경이 생길 때마다 profile 이벤트를 보냅니다.
// @Description  EventSource 는 헤더를 붙일 수 없으므로 access_token 쿼리 파라미터도 받습니다.
// @Tags         users
// @Security     BearerAuth
// @Produce      text/event-stream
// @Param        access_token  query  string  false  "JWT (Authorization 헤더 대신)"
// @Success      200  {object}  dto.UserProfileDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /users/profile/stream [get]
func StreamUserProfileHandler(profileSvc *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := auth.UID(c)

		// 구독을 먼저 걸어야 초기 조회와 첫 변경 사이의 업데이트를 놓치지 않는다.
		updates, stop := profileSvc.Subscribe(uid)
		defer stop()

		current, err := profileSvc.GetProfile(c.Request.Context(), uid)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				respondError(c, http.StatusNotFound, "user_not_found", err.Error())
				return
			}
			respondInternal(c, "failed_to_load_profile", err)
			return
		}

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.SSEvent("profile", current)
		c.Writer.Flush()

		keepAlive := time.NewTicker(profileStreamKeepAlive)
		defer keepAlive.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case <-c.Request.Context().Done():
				return false
			case p, ok := <-updates:
				if !ok {
					return false
				}
				c.SSEvent("profile", p)
				return true
			case <-keepAlive.C:
				c.SSEvent("ping", gin.H{"at": time.Now().UTC().Format(time.RFC3339)})
				return true
			}
		})
	}
}
