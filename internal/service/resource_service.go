package service

import (
	"bookhive_backend/internal/config"
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/repository"
	"bookhive_backend/internal/util"
	"bookhive_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ResourceService struct {
	ResourceRepo   *repository.ResourceRepository
	MultimediaRepo *repository.MultimediaRepository
	ProductRepo    *repository.ProductRepository
	Storage        *StorageService
	Strategies     *StrategyDispatcher
	Cfg            *config.Config
	DB             *gorm.DB
}

func NewResourceService(
	resourceRepo *repository.ResourceRepository,
	multimediaRepo *repository.MultimediaRepository,
	productRepo *repository.ProductRepository,
	storage *StorageService,
	strategies *StrategyDispatcher,
	cfg *config.Config,
	db *gorm.DB,
) *ResourceService {
	return &ResourceService{
		ResourceRepo:   resourceRepo,
		MultimediaRepo: multimediaRepo,
		ProductRepo:    productRepo,
		Storage:        storage,
		Strategies:     strategies,
		Cfg:            cfg,
		DB:             db,
	}
}

// CreateResourceInput 创建/更新资源的入参
type CreateResourceInput struct {
	Type            model.ResourceType `json:"type" binding:"required,oneof=section resource quiz survey"`
	Title           string             `json:"title" binding:"required"`
	Description     string             `json:"description"`
	LongDescription string             `json:"longDescription"`
	FileType        string             `json:"fileType"`
	Source          string             `json:"source"`
	Filename        string             `json:"filename"`
	MediaPath       string             `json:"mediaPath"`
	FileID          string             `json:"fileId"`
	Size            float64            `json:"size"`
	Duration        float64            `json:"duration"`
	Order           int                `json:"order" binding:"min=0"`
	ParentID        *string            `json:"parentId"`
	IsPreview       bool               `json:"isPreview"`
	Downloadable    bool               `json:"downloadable"`
	Payload         datatypes.JSON     `json:"payload"`
	Thumbnail       *model.Thumbnail   `json:"thumbnail"`
}

// Create 新建资源并落多媒体关联行，完成后刷新产品汇总指标
func (s *ResourceService) Create(ctx context.Context, hostID, productID string, in CreateResourceInput) (*model.Resource, error) {
	if _, err := s.ProductRepo.FindByID(ctx, hostID, productID); err != nil {
		return nil, err
	}

	all, err := s.ResourceRepo.FindByProduct(productID)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		if findResource(all, *in.ParentID) == nil {
			return nil, util.ErrParentResourceNotFound
		}
	}

	// order 在同级兄弟中必须唯一
	for i := range all {
		if ptrEqual(all[i].ParentID, in.ParentID) && all[i].Order == in.Order {
			return nil, util.ErrDuplicateResourceOrder
		}
	}

	resource := &model.Resource{
		ProductID:       productID,
		HostID:          hostID,
		Type:            in.Type,
		Title:           in.Title,
		Description:     in.Description,
		LongDescription: in.LongDescription,
		FileType:        in.FileType,
		Source:          in.Source,
		Filename:        in.Filename,
		FileID:          in.FileID,
		Size:            in.Size,
		Duration:        in.Duration,
		Order:           in.Order,
		ParentID:        in.ParentID,
		IsPreview:       in.IsPreview,
		Downloadable:    in.Downloadable,
		Payload:         in.Payload,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(resource).Error; err != nil {
			return err
		}
		if in.MediaPath != "" && in.Source != "" {
			main := &model.Multimedia{
				ResourceID: resource.ID,
				Kind:       model.KindMain,
				Type:       in.FileType,
				Source:     model.MultimediaSource(in.Source),
				Path:       in.MediaPath,
			}
			if err := tx.Create(main).Error; err != nil {
				return err
			}
			if strategy := s.Strategies.For(main.Source); strategy != nil {
				url, err := strategy.GetPublicURL(ctx, main, ModePrivate)
				if err != nil {
					return err
				}
				resource.URL = url
				if err := tx.Model(resource).Update("url", url).Error; err != nil {
					return err
				}
			}
		}
		if in.Thumbnail != nil {
			thumb := &model.Multimedia{
				ResourceID: resource.ID,
				Kind:       model.KindThumbnail,
				Type:       in.Thumbnail.Type,
				Source:     in.Thumbnail.Source,
				Path:       in.Thumbnail.Path,
			}
			if err := tx.Create(thumb).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recomputeMetrics(ctx, productID)
	return resource, nil
}

// Update 部分更新，重新解析父节点与多媒体，完成后刷新指标
func (s *ResourceService) Update(ctx context.Context, hostID, productID, resourceID string, updates map[string]interface{}) (*model.Resource, error) {
	resource, err := s.ResourceRepo.FindByID(resourceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	if resource.ProductID != productID || resource.HostID != hostID {
		return nil, util.ErrResourceNotFound
	}

	if raw, ok := updates["parentId"]; ok {
		var parentID *string
		if raw != nil {
			pid, _ := raw.(string)
			parentID = &pid
		}
		// 换父和重排序走同一套校验，挂到自己的后代下会形成环，拒绝
		all, err := s.ResourceRepo.FindByProduct(productID)
		if err != nil {
			return nil, err
		}
		if err := validateParentChange(all, resourceID, parentID); err != nil {
			return nil, err
		}
		updates["parent_id"] = raw
		delete(updates, "parentId")
	}
	if raw, ok := updates["order"]; ok {
		updates["order_index"] = raw
		delete(updates, "order")
	}

	if err := s.ResourceRepo.UpdateFields(resourceID, updates); err != nil {
		return nil, err
	}

	s.recomputeMetrics(ctx, productID)
	return s.ResourceRepo.FindByID(resourceID)
}

// Delete 级联删除整棵子树：先子后父删库内行（单事务），
// 随后在事务外尽力清理供应商侧资产，最后刷新产品指标
func (s *ResourceService) Delete(ctx context.Context, hostID, productID, resourceID string) error {
	resource, err := s.ResourceRepo.FindByID(resourceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrResourceNotFound
	}
	if err != nil {
		return err
	}
	if resource.ProductID != productID || resource.HostID != hostID {
		return util.ErrResourceNotFound
	}

	all, err := s.ResourceRepo.FindByProduct(productID)
	if err != nil {
		return err
	}

	ids := collectSubtree(all, resourceID)
	media, err := s.MultimediaRepo.FindByResourceIDs(ids)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.MultimediaRepo.DeleteByResourceIDs(tx, ids); err != nil {
			return err
		}
		return s.ResourceRepo.DeleteByIDs(tx, ids)
	})
	if err != nil {
		return err
	}

	s.Strategies.DeleteBestEffort(ctx, media)
	s.recomputeMetrics(ctx, productID)
	return nil
}

// Reorder 应用一批排序/换父更新，校验全部通过后才写库，失败不产生部分写入
func (s *ResourceService) Reorder(ctx context.Context, hostID, productID string, items []ReorderItem) error {
	if _, err := s.ProductRepo.FindByID(ctx, hostID, productID); err != nil {
		return err
	}

	all, err := s.ResourceRepo.FindByProduct(productID)
	if err != nil {
		return err
	}

	existing := make(map[string]*model.Resource, len(all))
	for i := range all {
		existing[all[i].ID] = &all[i]
	}

	batch, err := computeReorderBatch(existing, items)
	if err != nil {
		return err
	}

	return s.ResourceRepo.BatchUpdateOrder(batch)
}

// GetTree 返回私有模式的资源树（完整字段，含每用户完成标记），
// 主资产地址按多媒体来源经策略签发
func (s *ResourceService) GetTree(ctx context.Context, productID string, completed map[string]bool) (*AggregateResult, error) {
	all, err := s.ResourceRepo.FindByProduct(productID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, all, AggregateOptions{IsPublic: false, Completed: completed})
}

// GetPublicTree 返回公开模式的资源树，内部字段一律隐藏，仅限已发布产品
func (s *ResourceService) GetPublicTree(ctx context.Context, hostID, productID string) (*AggregateResult, error) {
	if _, err := s.ProductRepo.FindPublished(ctx, hostID, productID); err != nil {
		return nil, err
	}

	all, err := s.ResourceRepo.FindByProduct(productID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, all, AggregateOptions{IsPublic: true})
}

func (s *ResourceService) aggregate(ctx context.Context, all []model.Resource, opts AggregateOptions) (*AggregateResult, error) {
	ids := make([]string, len(all))
	for i := range all {
		ids[i] = all[i].ID
	}

	media, err := s.MultimediaRepo.FindByResourceIDs(ids)
	if err != nil {
		return nil, err
	}

	thumbnails := make(map[string]model.Multimedia)
	mains := make(map[string]model.Multimedia)
	for _, m := range media {
		switch m.Kind {
		case model.KindThumbnail:
			thumbnails[m.ResourceID] = m
		case model.KindMain:
			mains[m.ResourceID] = m
		}
	}

	// 私有模式下主资产地址临签发，过期的存量URL不直接外泄
	if !opts.IsPublic {
		for i := range all {
			main, ok := mains[all[i].ID]
			if !ok {
				continue
			}
			strategy := s.Strategies.For(main.Source)
			if strategy == nil {
				continue
			}
			url, err := strategy.GetPublicURL(ctx, &main, ModePrivate)
			if err != nil {
				logger.Log.Error("failed to sign resource url",
					zap.String("resourceId", all[i].ID), zap.Error(err))
				continue
			}
			all[i].URL = url
		}
	}

	result := AggregateResources(all, thumbnails, s.Cfg.CDN.Domain, opts)
	return &result, nil
}

// UploadResourceVideo 直传视频：临时落盘探测时长、抓帧缩略图，
// 上传对象存储后回填资源的文件元数据
func (s *ResourceService) UploadResourceVideo(ctx context.Context, hostID, productID, resourceID string, file *multipart.FileHeader) (*model.Resource, error) {
	resource, err := s.ResourceRepo.FindByID(resourceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	if resource.ProductID != productID || resource.HostID != hostID {
		return nil, util.ErrResourceNotFound
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	isValidType := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			isValidType = true
			break
		}
	}
	if !isValidType {
		return nil, util.ErrInvalidVideoExt
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 深度验证 MIME 类型
	if _, err := util.ValidateMimeType(src, []string{util.MimeVideo}); err != nil {
		return nil, util.ErrInvalidVideoContent
	}
	src.Seek(0, 0)

	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, err
	}
	videoPath := filepath.Join(tempDir, fmt.Sprintf("temp_video_%d%s", time.Now().UnixNano(), ext))
	defer os.Remove(videoPath)

	dst, err := os.Create(videoPath)
	if err != nil {
		return nil, err
	}
	if _, err := dst.ReadFrom(src); err != nil {
		dst.Close()
		return nil, err
	}
	dst.Close()

	mediaPath := fmt.Sprintf("products/%s/resources/%s/%s_%s%s",
		productID, resourceID, time.Now().Format("20060102150405"), util.GenerateRandomString(6), ext)
	if _, err := s.Storage.UploadFile(ctx, mediaPath, videoPath, "video/"+strings.TrimPrefix(ext, ".")); err != nil {
		return nil, err
	}

	// 生成缩略图，失败不阻断上传
	thumbPath := fmt.Sprintf("products/%s/resources/%s/thumb_%s.jpg",
		productID, resourceID, util.GenerateRandomString(6))
	localThumb := filepath.Join(tempDir, filepath.Base(thumbPath))
	var hasThumb bool
	if err := util.GenerateThumbnail(videoPath, localThumb, "3"); err != nil {
		logger.Log.Error("生成缩略图失败", zap.Error(err))
	} else {
		if _, err := s.Storage.UploadFile(ctx, thumbPath, localThumb, "image/jpeg"); err != nil {
			logger.Log.Error("上传缩略图失败", zap.Error(err))
		} else {
			hasThumb = true
		}
		os.Remove(localThumb)
	}

	var duration float64
	size := float64(file.Size)
	if info, err := util.GetVideoInfo(videoPath); err == nil {
		duration = info.Duration
		size = float64(info.Size)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.MultimediaRepo.DeleteByResource(tx, resourceID); err != nil {
			return err
		}
		main := &model.Multimedia{
			ResourceID: resourceID,
			Kind:       model.KindMain,
			Type:       "video",
			Source:     model.SourceStorage,
			Path:       mediaPath,
		}
		if err := tx.Create(main).Error; err != nil {
			return err
		}
		if hasThumb {
			thumb := &model.Multimedia{
				ResourceID: resourceID,
				Kind:       model.KindThumbnail,
				Type:       "image",
				Source:     model.SourceStorage,
				Path:       thumbPath,
			}
			if err := tx.Create(thumb).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Resource{}).Where("id = ?", resourceID).Updates(map[string]interface{}{
			"file_type": "video",
			"source":    string(model.SourceStorage),
			"filename":  file.Filename,
			"duration":  duration,
			"size":      size,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.recomputeMetrics(ctx, productID)
	return s.ResourceRepo.FindByID(resourceID)
}

// recomputeMetrics 刷新产品汇总指标，属尽力而为的副作用：失败记日志不上抛
func (s *ResourceService) recomputeMetrics(ctx context.Context, productID string) {
	all, err := s.ResourceRepo.FindByProduct(productID)
	if err != nil {
		logger.Log.Error("failed to load resources for metrics recompute",
			zap.String("productId", productID), zap.Error(err))
		return
	}
	if err := s.ProductRepo.UpdateMetrics(ctx, productID, ComputeMetrics(all)); err != nil {
		logger.Log.Error("failed to update product metrics",
			zap.String("productId", productID), zap.Error(err))
	}
}

func findResource(all []model.Resource, id string) *model.Resource {
	for i := range all {
		if all[i].ID == id {
			return &all[i]
		}
	}
	return nil
}
