package controller

import (
	"bookhive_backend/internal/service"
	"bookhive_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary 注册新用户
// @Description 使用邮箱和密码注册新账号
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterInput true "用户注册信息"
// @Success 201 {object} util.Response{data=service.AuthResult} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /v2/users [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// Login godoc
// @Summary 账号密码登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginInput true "登录信息"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response "凭证无效"
// @Router /v2/users/sessions [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// ProviderLogin godoc
// @Summary 第三方身份登录
// @Description 使用外部身份提供商的断言换取会话，首次登录自动建号
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.ProviderLoginInput true "第三方身份信息"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response "认证异常"
// @Router /v2/users/sessions/providers [post]
func (c *AuthController) ProviderLogin(ctx *gin.Context) {
	var req service.ProviderLoginInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.ProviderLogin(ctx.Request.Context(), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// CreateTemporalToken godoc
// @Summary 签发一次性短时令牌
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Success 201 {object} util.Response{data=object}
// @Router /v2/auth/temporal-tokens [post]
func (c *AuthController) CreateTemporalToken(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	token, err := c.AuthService.CreateTemporalToken(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"token": token})
}

type temporalTokenExchangeRequest struct {
	Token string `json:"token" binding:"required"`
}

// ExchangeTemporalToken godoc
// @Summary 用一次性令牌换取正式会话
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body temporalTokenExchangeRequest true "一次性令牌"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response "令牌无效或已过期"
// @Router /v2/auth/temporal-tokens/exchange [post]
func (c *AuthController) ExchangeTemporalToken(ctx *gin.Context) {
	var req temporalTokenExchangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.ConsumeTemporalToken(ctx.Request.Context(), req.Token)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Profile godoc
// @Summary 当前用户信息
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /v2/users/me [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.AuthService.Profile(claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

type updateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// UpdateProfile godoc
// @Summary 更新当前用户信息
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body updateProfileRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.User}
// @Router /v2/users/me [patch]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req updateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.UpdateProfile(claims.UserID, req.Name, req.Avatar)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, user)
}
