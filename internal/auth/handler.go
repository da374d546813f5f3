package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/apperr"
	"github.com/Oniqq60/staff_control/internal/dto"
	"github.com/Oniqq60/staff_control/internal/respond"
	"github.com/Oniqq60/staff_control/internal/validation"
)

var (
	// Registration reports every client-side failure as 400.
	registerStatus = respond.StatusMap{
		apperr.KindConflict:   http.StatusBadRequest,
		apperr.KindValidation: http.StatusBadRequest,
	}
	// Login reports every client-side failure as 401.
	loginStatus = respond.StatusMap{
		apperr.KindValidation: http.StatusUnauthorized,
		apperr.KindConflict:   http.StatusUnauthorized,
	}
)

type Handler struct {
	service  Service
	throttle LoginThrottle
	log      *zap.Logger
}

func NewHandler(service Service, throttle LoginThrottle, log *zap.Logger) *Handler {
	if throttle == nil {
		throttle = NopThrottle{}
	}
	return &Handler{
		service:  service,
		throttle: throttle,
		log:      log,
	}
}

// Register always creates an employee account; admins come from seeding.
func (h *Handler) Register(c *gin.Context) {
	req := validation.BodyFrom[dto.RegisterRequest](c)

	result, err := h.service.Register(c.Request.Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     RoleEmployee,
	})
	if err != nil {
		h.log.Warn("register request failed", zap.Error(err))
		respond.Error(c, err, registerStatus)
		return
	}

	respond.OK(c, http.StatusCreated, "User registered successfully", toAuthResponse(result))
}

func (h *Handler) Login(c *gin.Context) {
	req := validation.BodyFrom[dto.LoginRequest](c)
	ctx := c.Request.Context()
	email := NormalizeEmail(req.Email)
	ip := c.ClientIP()

	blocked, err := h.throttle.Blocked(ctx, email, ip)
	if err != nil {
		h.log.Warn("login throttle unavailable", zap.Error(err))
	}
	if blocked {
		respond.Error(c, apperr.TooManyRequests("Too many login attempts, try again later"))
		return
	}

	result, err := h.service.Login(ctx, email, req.Password)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			if ferr := h.throttle.Fail(ctx, email, ip); ferr != nil {
				h.log.Warn("login throttle update failed", zap.Error(ferr))
			}
		}
		h.log.Warn("login request failed", zap.String("email", email), zap.Error(err))
		respond.Error(c, err, loginStatus)
		return
	}

	if err := h.throttle.Reset(ctx, email, ip); err != nil {
		h.log.Warn("login throttle reset failed", zap.Error(err))
	}
	respond.OK(c, http.StatusOK, "Login successful", toAuthResponse(result))
}

func toAuthResponse(r AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User: dto.UserResponse{
			ID:    r.User.ID,
			Email: r.User.Email,
			Role:  string(r.User.Role),
		},
		Token: r.Token,
	}
}
