package util

import "errors"

// 错误码使用机器可读的名称，响应体 message 字段直接返回这些名称
var (
	ErrProductNotFound          = errors.New("ProductNotFound")
	ErrResourceNotFound         = errors.New("ResourceNotFound")
	ErrParentResourceNotFound   = errors.New("ParentResourceNotFound")
	ErrUserNotFound             = errors.New("UserNotFound")
	ErrPaymentOptionNotFound    = errors.New("PaymentOptionNotFound")
	ErrAliasAlreadyExists       = errors.New("AliasAlreadyExists")
	ErrEmailAlreadyRegistered   = errors.New("EmailAlreadyRegistered")
	ErrAvailabilitySlotsOverlap = errors.New("WeeklyAvailabilitySlotsOverlap")
	ErrDateAlreadyBooked        = errors.New("DateAlreadyBooked")
	ErrDuplicateResourceOrder   = errors.New("DuplicateResourceOrder")
	ErrResourceCycleDetected    = errors.New("ResourceCycleDetected")
	ErrResourceNotEligible      = errors.New("ResourceNotEligible")
	ErrInvalidCredentials       = errors.New("InvalidCredentials")
	ErrAuthException            = errors.New("AuthException")
	ErrTemporalTokenInvalid     = errors.New("TemporalTokenInvalid")
	ErrPermissionDenied         = errors.New("PermissionDenied")
	ErrInvalidVideoExt          = errors.New("不支持的视频格式")
	ErrInvalidVideoContent      = errors.New("非法的文件内容，仅允许视频格式")
)
