package controller

import (
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/service"
	"bookhive_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

type ProductController struct {
	ProductService *service.ProductService
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{ProductService: productService}
}

// hostScope 管理接口的路径 hostId 必须与登录用户一致（管理员除外）
func hostScope(ctx *gin.Context) (string, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return "", false
	}

	hostID := ctx.Param("hostId")
	if hostID != claims.UserID && claims.Role != model.Admin {
		util.Forbidden(ctx)
		return "", false
	}
	return hostID, true
}

// Create godoc
// @Summary 创建产品
// @Tags 产品管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   body body service.CreateProductInput true "产品信息"
// @Success 201 {object} util.Response{data=model.Product}
// @Failure 409 {object} util.Response "别名已存在"
// @Router /v2/management/products/{hostId} [post]
func (c *ProductController) Create(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	var req service.CreateProductInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	product, err := c.ProductService.Create(ctx.Request.Context(), hostID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, product)
}

// List godoc
// @Summary 主办方产品列表
// @Tags 产品管理
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Success 200 {object} util.Response{data=[]model.Product}
// @Router /v2/management/products/{hostId} [get]
func (c *ProductController) List(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	products, err := c.ProductService.List(ctx.Request.Context(), hostID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, products)
}

// Get godoc
// @Summary 产品详情（管理视图）
// @Tags 产品管理
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Success 200 {object} util.Response{data=model.Product}
// @Failure 404 {object} util.Response "产品不存在"
// @Router /v2/management/products/{hostId}/{productId} [get]
func (c *ProductController) Get(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	product, err := c.ProductService.Get(ctx.Request.Context(), hostID, ctx.Param("productId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, product)
}

// Update godoc
// @Summary 部分更新产品
// @Tags 产品管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   body body object true "要更新的字段"
// @Success 200 {object} util.Response{data=model.Product}
// @Failure 409 {object} util.Response "别名已存在"
// @Router /v2/management/products/{hostId}/{productId} [patch]
func (c *ProductController) Update(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	var fields bson.M
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	// 不允许通过部分更新越权改动归属和主键
	delete(fields, "_id")
	delete(fields, "id")
	delete(fields, "hostId")

	product, err := c.ProductService.Update(ctx.Request.Context(), hostID, ctx.Param("productId"), fields)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, product)
}

// Delete godoc
// @Summary 删除产品（级联资源与进度）
// @Tags 产品管理
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "产品不存在"
// @Router /v2/management/products/{hostId}/{productId} [delete]
func (c *ProductController) Delete(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	if err := c.ProductService.Delete(ctx.Request.Context(), hostID, ctx.Param("productId")); err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// AddDate godoc
// @Summary 新增可预约场次
// @Tags 产品管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   body body model.ProductDate true "场次信息"
// @Success 201 {object} util.Response{data=model.Product}
// @Router /v2/management/products/{hostId}/{productId}/dates [post]
func (c *ProductController) AddDate(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	var date model.ProductDate
	if err := ctx.ShouldBindJSON(&date); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	product, err := c.ProductService.AddDate(ctx.Request.Context(), hostID, ctx.Param("productId"), date)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, product)
}

// RemoveDate godoc
// @Summary 删除场次
// @Tags 产品管理
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   dateId path string true "场次ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "场次已有预约"
// @Router /v2/management/products/{hostId}/{productId}/dates/{dateId} [delete]
func (c *ProductController) RemoveDate(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	err := c.ProductService.RemoveDate(ctx.Request.Context(), hostID, ctx.Param("productId"), ctx.Param("dateId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// AddNotification godoc
// @Summary 新增产品通知
// @Tags 产品管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   body body model.Notification true "通知内容"
// @Success 201 {object} util.Response{data=model.Notification}
// @Router /v2/management/products/{hostId}/{productId}/notifications [post]
func (c *ProductController) AddNotification(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	var n model.Notification
	if err := ctx.ShouldBindJSON(&n); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.ProductService.AddNotification(ctx.Request.Context(), hostID, ctx.Param("productId"), n)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, created)
}

// UpdateNotification godoc
// @Summary 更新产品通知
// @Tags 产品管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   notificationId path string true "通知ID"
// @Param   body body model.Notification true "通知内容"
// @Success 200 {object} util.Response
// @Router /v2/management/products/{hostId}/{productId}/notifications/{notificationId} [patch]
func (c *ProductController) UpdateNotification(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	var n model.Notification
	if err := ctx.ShouldBindJSON(&n); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	n.ID = ctx.Param("notificationId")

	err := c.ProductService.UpdateNotification(ctx.Request.Context(), hostID, ctx.Param("productId"), n)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// RemoveNotification godoc
// @Summary 删除产品通知
// @Tags 产品管理
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   notificationId path string true "通知ID"
// @Success 200 {object} util.Response
// @Router /v2/management/products/{hostId}/{productId}/notifications/{notificationId} [delete]
func (c *ProductController) RemoveNotification(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	err := c.ProductService.RemoveNotification(ctx.Request.Context(), hostID, ctx.Param("productId"), ctx.Param("notificationId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// GetPublic godoc
// @Summary 公开产品详情
// @Tags 公开
// @Produce  json
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Success 200 {object} util.Response{data=model.Product}
// @Failure 404 {object} util.Response "产品不存在或未发布"
// @Router /products/{hostId}/{productId} [get]
func (c *ProductController) GetPublic(ctx *gin.Context) {
	product, err := c.ProductService.GetPublic(ctx.Request.Context(), ctx.Param("hostId"), ctx.Param("productId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, product)
}

// PublicPaymentMethods godoc
// @Summary 产品可用支付方式
// @Tags 公开
// @Produce  json
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Success 200 {object} util.Response{data=[]model.PaymentOption}
// @Router /products/{hostId}/{productId}/payment-methods [get]
func (c *ProductController) PublicPaymentMethods(ctx *gin.Context) {
	options, err := c.ProductService.PublicPaymentMethods(ctx.Request.Context(), ctx.Param("hostId"), ctx.Param("productId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, options)
}

// PublicSessions godoc
// @Summary 产品可预约场次
// @Tags 公开
// @Produce  json
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Success 200 {object} util.Response{data=[]model.ProductDate}
// @Router /products/{hostId}/{productId}/sessions [get]
func (c *ProductController) PublicSessions(ctx *gin.Context) {
	sessions, err := c.ProductService.PublicSessions(ctx.Request.Context(), ctx.Param("hostId"), ctx.Param("productId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}
