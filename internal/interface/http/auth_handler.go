package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	in.ClientIP = middleware.ClientIP(c)
	in.UserAgent = c.GetHeader("User-Agent")

	res, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "user registered, check your email to validate the account", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in application.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

// CheckAuthStatus GET /api/auth/check-auth-status (auth required)
func (h *AuthHandler) CheckAuthStatus(c *gin.Context) {
	res, err := h.Svc.CheckAuthStatus(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "token renewed", nil)
}

// ValidateEmail GET /api/auth/validate-email/:token
// Always answers 200; the outcome is carried by success.
func (h *AuthHandler) ValidateEmail(c *gin.Context) {
	if err := h.Svc.ValidateEmail(c.Request.Context(), c.Param("token")); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Info("email validation rejected")
		}
		response.Error[any](c, http.StatusOK, application.MsgValidateFailed, response.ErrorBody{Kind: apperror.KindOf(err).String()})
		return
	}
	response.Success[any](c, http.StatusOK, nil, "email validated", nil)
}
