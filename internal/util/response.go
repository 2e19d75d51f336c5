package util

import (
	"bookhive_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// FromError 将领域错误映射为对应的HTTP状态码，未识别的错误按500处理并记录日志
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrResourceNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPaymentOptionNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAliasAlreadyExists),
		errors.Is(err, ErrEmailAlreadyRegistered),
		errors.Is(err, ErrDateAlreadyBooked):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrParentResourceNotFound),
		errors.Is(err, ErrAvailabilitySlotsOverlap),
		errors.Is(err, ErrDuplicateResourceOrder),
		errors.Is(err, ErrResourceCycleDetected),
		errors.Is(err, ErrResourceNotEligible),
		errors.Is(err, ErrInvalidVideoExt),
		errors.Is(err, ErrInvalidVideoContent):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrTemporalTokenInvalid),
		errors.Is(err, ErrAuthException):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		Error(c, http.StatusForbidden, err.Error())
	default:
		LogInternalError(c, err)
	}
}
