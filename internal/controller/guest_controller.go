package controller

import (
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/service"
	"bookhive_backend/internal/util"
	"fmt"

	"github.com/gin-gonic/gin"
)

// GuestController 访客侧的资源访问与学习进度接口
type GuestController struct {
	ProductService  *service.ProductService
	ResourceService *service.ResourceService
	ProgressService *service.ProgressService
	CDNSigner       *service.CDNSigner
}

func NewGuestController(
	productService *service.ProductService,
	resourceService *service.ResourceService,
	progressService *service.ProgressService,
	cdnSigner *service.CDNSigner,
) *GuestController {
	return &GuestController{
		ProductService:  productService,
		ResourceService: resourceService,
		ProgressService: progressService,
		CDNSigner:       cdnSigner,
	}
}

// GetResources godoc
// @Summary 访客资源树
// @Description 私有模式资源树，附带当前用户的完成标记与总体进度
// @Tags 访客
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "产品不存在或未发布"
// @Router /v2/guests/products/{hostId}/{productId}/resources [get]
func (c *GuestController) GetResources(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	hostID := ctx.Param("hostId")
	productID := ctx.Param("productId")

	if _, err := c.ProductService.GetPublic(ctx.Request.Context(), hostID, productID); err != nil {
		util.FromError(ctx, err)
		return
	}

	progress, err := c.ProgressService.Get(ctx.Request.Context(), claims.UserID, productID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	completed := make(map[string]bool, len(progress.CompletedResources))
	for _, r := range progress.CompletedResources {
		completed[r.ResourceID] = r.Completed
	}

	tree, err := c.ResourceService.GetTree(ctx.Request.Context(), productID, completed)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"resources": tree.Resources,
		"metrics":   tree.Metrics,
		"progress":  progress,
	})
}

// GetProgress godoc
// @Summary 当前用户的学习进度
// @Tags 访客
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Success 200 {object} util.Response{data=model.ProductProgress}
// @Router /v2/guests/products/{hostId}/{productId}/progress [get]
func (c *GuestController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.Get(ctx.Request.Context(), claims.UserID, ctx.Param("productId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// UpdateTracking godoc
// @Summary 更新最近学习位置
// @Tags 访客
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   body body model.ProgressTracking true "位置标记"
// @Success 200 {object} util.Response
// @Router /v2/guests/products/{hostId}/{productId}/tracking [put]
func (c *GuestController) UpdateTracking(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var tracking model.ProgressTracking
	if err := ctx.ShouldBindJSON(&tracking); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ProgressService.UpdateTracking(ctx.Request.Context(), claims.UserID, ctx.Param("productId"), tracking)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

type completionRequest struct {
	ResourceID string `json:"resourceId" binding:"required"`
	Completed  *bool  `json:"completed" binding:"required"`
}

// MarkCompletion godoc
// @Summary 标记资源完成状态
// @Description 仅课程/测验/问卷可标记，章节不计入进度
// @Tags 访客
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   body body completionRequest true "完成标记"
// @Success 200 {object} util.Response{data=model.ProductProgress}
// @Failure 400 {object} util.Response "资源不计入进度"
// @Router /v2/guests/products/{hostId}/{productId}/completions [post]
func (c *GuestController) MarkCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req completionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.MarkCompletion(ctx.Request.Context(), claims.UserID, ctx.Param("productId"), req.ResourceID, *req.Completed)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// GrantAccess godoc
// @Summary 签发资源直连访问Cookie
// @Description 对产品目录前缀签发CDN访问Cookie，供播放器直连私有内容
// @Tags 访客
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Success 200 {object} util.Response
// @Router /v2/guests/products/{hostId}/{productId}/access [post]
func (c *GuestController) GrantAccess(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	hostID := ctx.Param("hostId")
	productID := ctx.Param("productId")

	if _, err := c.ProductService.GetPublic(ctx.Request.Context(), hostID, productID); err != nil {
		util.FromError(ctx, err)
		return
	}

	cookies, err := c.CDNSigner.SignCookies(fmt.Sprintf("products/%s/*", productID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	for _, cookie := range cookies {
		ctx.SetSameSite(cookie.SameSite)
		ctx.SetCookie(cookie.Name, cookie.Value, cookie.MaxAge, cookie.Path, cookie.Domain, cookie.Secure, cookie.HttpOnly)
	}

	util.Success(ctx, gin.H{"granted": len(cookies) > 0})
}
