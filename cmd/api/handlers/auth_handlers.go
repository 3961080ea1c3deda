package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/api/dto"
	"yt-insight/cmd/api/services"
)

// SignupHandler godoc
// @Summary      이메일 회원가입
// @Description  계정과 프로필을 만들고 가입 크레딧을 지급한 뒤 액세스 토큰을 발급합니다.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SignupRequest  true  "가입 정보"
// @Success      201   {object}  dto.TokenResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      409   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /auth/signup [post]
func SignupHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		token, err := authSvc.Signup(c.Request.Context(), req)
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, token)
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondError(c, http.StatusBadRequest, "password_too_short", err.Error())
		case errors.Is(err, services.ErrEmailTaken):
			respondError(c, http.StatusConflict, "email_taken", err.Error())
		default:
			respondInternal(c, "signup_failed", err)
		}
	}
}

// LoginHandler godoc
// @Summary      이메일 로그인
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "로그인 정보"
// @Success      200   {object}  dto.TokenResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      401   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /auth/login [post]
func LoginHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		token, err := authSvc.Login(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				respondError(c, http.StatusUnauthorized, "invalid_credentials", err.Error())
				return
			}
			respondInternal(c, "login_failed", err)
			return
		}
		c.JSON(http.StatusOK, token)
	}
}
