package controller

import (
	"bookhive_backend/internal/service"
	"bookhive_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	ResourceService *service.ResourceService
}

func NewResourceController(resourceService *service.ResourceService) *ResourceController {
	return &ResourceController{ResourceService: resourceService}
}

// Create godoc
// @Summary 创建资源节点
// @Description 在产品内容树中新建章节/课程/测验/问卷节点
// @Tags 资源管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   body body service.CreateResourceInput true "资源信息"
// @Success 201 {object} util.Response{data=model.Resource}
// @Failure 400 {object} util.Response "父节点不存在或排序冲突"
// @Router /v2/management/products/{hostId}/{productId}/resources [post]
func (c *ResourceController) Create(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	var req service.CreateResourceInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resource, err := c.ResourceService.Create(ctx.Request.Context(), hostID, ctx.Param("productId"), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, resource)
}

// GetTree godoc
// @Summary 产品资源树（管理视图）
// @Description 完整字段的嵌套资源树，含汇总指标
// @Tags 资源管理
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Success 200 {object} util.Response{data=service.AggregateResult}
// @Router /v2/management/products/{hostId}/{productId}/resources [get]
func (c *ResourceController) GetTree(ctx *gin.Context) {
	if _, ok := hostScope(ctx); !ok {
		return
	}

	result, err := c.ResourceService.GetTree(ctx.Request.Context(), ctx.Param("productId"), nil)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Update godoc
// @Summary 部分更新资源
// @Tags 资源管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   resourceId path string true "资源ID"
// @Param   body body object true "要更新的字段"
// @Success 200 {object} util.Response{data=model.Resource}
// @Router /v2/management/products/{hostId}/{productId}/resources/{resourceId} [patch]
func (c *ResourceController) Update(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	delete(fields, "id")
	delete(fields, "productId")
	delete(fields, "hostId")

	resource, err := c.ResourceService.Update(ctx.Request.Context(), hostID, ctx.Param("productId"), ctx.Param("resourceId"), fields)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, resource)
}

// Delete godoc
// @Summary 删除资源及其整棵子树
// @Tags 资源管理
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   resourceId path string true "资源ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "资源不存在"
// @Router /v2/management/products/{hostId}/{productId}/resources/{resourceId} [delete]
func (c *ResourceController) Delete(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	err := c.ResourceService.Delete(ctx.Request.Context(), hostID, ctx.Param("productId"), ctx.Param("resourceId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

type reorderRequest struct {
	Items []service.ReorderItem `json:"items" binding:"required,min=1,dive"`
}

// Reorder godoc
// @Summary 批量调整资源顺序与层级
// @Description 整批校验通过后一次性写入，任一校验失败则整批拒绝并返回全部问题
// @Tags 资源管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   body body reorderRequest true "排序更新列表"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response{data=service.ReorderValidationError} "校验失败明细"
// @Router /v2/management/products/{hostId}/{productId}/resources/reorder [put]
func (c *ResourceController) Reorder(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	var req reorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ResourceService.Reorder(ctx.Request.Context(), hostID, ctx.Param("productId"), req.Items)
	if err != nil {
		var verr *service.ReorderValidationError
		if errors.As(err, &verr) {
			ctx.JSON(http.StatusBadRequest, util.Response{
				Code:    http.StatusBadRequest,
				Message: verr.Error(),
				Data:    verr,
			})
			return
		}
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// UploadVideo godoc
// @Summary 上传资源视频
// @Description 探测时长、抓帧缩略图并上传对象存储
// @Tags 资源管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Param   resourceId path string true "资源ID"
// @Param   video formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Resource}
// @Failure 400 {object} util.Response "不支持的视频格式"
// @Router /v2/management/products/{hostId}/{productId}/resources/{resourceId}/video [post]
func (c *ResourceController) UploadVideo(ctx *gin.Context) {
	hostID, ok := hostScope(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "缺少视频文件")
		return
	}

	resource, err := c.ResourceService.UploadResourceVideo(ctx.Request.Context(), hostID, ctx.Param("productId"), ctx.Param("resourceId"), file)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, resource)
}

// GetPublicTree godoc
// @Summary 公开资源树
// @Description 公开模式隐藏内部字段，仅展示结构与预览信息
// @Tags 公开
// @Produce  json
// @Param   hostId path string true "主办方ID"
// @Param   productId path string true "产品ID"
// @Success 200 {object} util.Response{data=service.AggregateResult}
// @Router /products/{hostId}/{productId}/resources [get]
func (c *ResourceController) GetPublicTree(ctx *gin.Context) {
	result, err := c.ResourceService.GetPublicTree(ctx.Request.Context(), ctx.Param("hostId"), ctx.Param("productId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
