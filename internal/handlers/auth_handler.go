package handlers

import (
	"net/http"

	"fender-store/internal/dto"
	"fender-store/internal/middleware"
	"fender-store/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth service.AuthUseCase
	log  *zap.Logger
}

func NewAuthHandler(auth service.AuthUseCase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAuthResponse(res))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuthResponse(res))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), c.GetString(middleware.CtxAccessToken)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("logged out"))
}

func (h *AuthHandler) Profile(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	u, orders, err := h.auth.Profile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{User: u, Orders: orders})
}
