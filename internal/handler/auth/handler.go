package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cadastro-saude/patient-registry/internal/handler"
	"github.com/cadastro-saude/patient-registry/internal/middleware"
	"github.com/cadastro-saude/patient-registry/internal/model"
	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
)

// Service is the part of the auth service the routes use
type Service interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	LoginWithGovBR(ctx context.Context, req *model.GovBRLoginRequest) (*model.GovBRLoginResponse, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public login routes and, on protected, the current-user route
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	auth := public.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/govbr", h.LoginWithGovBR)
	}
	protected.GET("/auth/me", h.Me)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) LoginWithGovBR(c *gin.Context) {
	var req model.GovBRLoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	resp, err := h.svc.LoginWithGovBR(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Me(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		handler.Fail(c, apperrors.Unauthorized("missing token claims", nil))
		return
	}

	c.JSON(http.StatusOK, model.GovBRUserInfo{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	})
}
