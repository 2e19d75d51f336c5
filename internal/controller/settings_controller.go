package controller

import (
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/service"
	"bookhive_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	SettingsService *service.SettingsService
}

func NewSettingsController(settingsService *service.SettingsService) *SettingsController {
	return &SettingsController{SettingsService: settingsService}
}

// Filters godoc
// @Summary 已发布产品的筛选项汇总
// @Description 分类、币种和价格区间，结果短时缓存
// @Tags 设置
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=repository.FilterAggregation}
// @Router /v2/management/settings/filters [get]
func (c *SettingsController) Filters(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	agg, err := c.SettingsService.Filters(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, agg)
}

// WithdrawalMethods godoc
// @Summary 提现渠道与门槛
// @Description 门槛金额按 currency 查询参数换汇，默认欧元
// @Tags 设置
// @Produce  json
// @Security BearerAuth
// @Param   currency query string false "目标币种（三位代码）"
// @Success 200 {object} util.Response{data=[]service.WithdrawalMethodView}
// @Router /v2/management/settings/withdrawal-methods [get]
func (c *SettingsController) WithdrawalMethods(ctx *gin.Context) {
	currency := ctx.DefaultQuery("currency", "EUR")
	util.Success(ctx, c.SettingsService.WithdrawalMethods(ctx.Request.Context(), currency))
}

// ListPaymentOptions godoc
// @Summary 支付方式列表
// @Tags 设置
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.PaymentOption}
// @Router /v2/management/settings/payment-options [get]
func (c *SettingsController) ListPaymentOptions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	options, err := c.SettingsService.ListPaymentOptions(claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, options)
}

// CreatePaymentOption godoc
// @Summary 新增支付方式
// @Tags 设置
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.PaymentOption true "支付方式"
// @Success 201 {object} util.Response{data=model.PaymentOption}
// @Router /v2/management/settings/payment-options [post]
func (c *SettingsController) CreatePaymentOption(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var option model.PaymentOption
	if err := ctx.ShouldBindJSON(&option); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.SettingsService.CreatePaymentOption(claims.UserID, &option); err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, option)
}

// UpdatePaymentOption godoc
// @Summary 更新支付方式
// @Tags 设置
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   optionId path string true "支付方式ID"
// @Param   body body model.PaymentOption true "更新字段"
// @Success 200 {object} util.Response{data=model.PaymentOption}
// @Router /v2/management/settings/payment-options/{optionId} [patch]
func (c *SettingsController) UpdatePaymentOption(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var updates model.PaymentOption
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	option, err := c.SettingsService.UpdatePaymentOption(claims.UserID, ctx.Param("optionId"), &updates)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, option)
}

// DeletePaymentOption godoc
// @Summary 删除支付方式
// @Tags 设置
// @Produce  json
// @Security BearerAuth
// @Param   optionId path string true "支付方式ID"
// @Success 200 {object} util.Response
// @Router /v2/management/settings/payment-options/{optionId} [delete]
func (c *SettingsController) DeletePaymentOption(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.SettingsService.DeletePaymentOption(claims.UserID, ctx.Param("optionId")); err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

type presignRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// PresignUpload godoc
// @Summary 生成文件直传地址
// @Tags 设置
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body presignRequest true "文件名"
// @Success 201 {object} util.Response{data=object}
// @Router /v2/management/settings/files [post]
func (c *SettingsController) PresignUpload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req presignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	url, path, err := c.SettingsService.PresignUpload(ctx.Request.Context(), claims.UserID, req.Filename)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"uploadUrl": url, "path": path})
}

// DeleteFile godoc
// @Summary 删除已上传的文件
// @Tags 设置
// @Produce  json
// @Security BearerAuth
// @Param   path query string true "文件路径"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "路径不属于当前用户"
// @Router /v2/management/settings/files [delete]
func (c *SettingsController) DeleteFile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	path := ctx.Query("path")
	if path == "" {
		util.BadRequest(ctx, "缺少 path 参数")
		return
	}

	if err := c.SettingsService.DeleteFile(ctx.Request.Context(), claims.UserID, path); err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
