package service

import (
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/repository"
	"bookhive_backend/internal/util"
	"context"
	"math"
	"time"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	ResourceRepo *repository.ResourceRepository
	ProductRepo  *repository.ProductRepository
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	resourceRepo *repository.ResourceRepository,
	productRepo *repository.ProductRepository,
) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		ResourceRepo: resourceRepo,
		ProductRepo:  productRepo,
	}
}

// Get 返回用户在产品上的进度，从未学习过时返回零值初始状态而非404
func (s *ProgressService) Get(ctx context.Context, userID, productID string) (*model.ProductProgress, error) {
	p, err := s.ProgressRepo.Find(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &model.ProductProgress{
			UserID:             userID,
			ProductID:          productID,
			CompletedResources: []model.CompletedResource{},
			Progress:           0,
			Status:             model.NotStarted,
		}, nil
	}
	return p, nil
}

// MarkCompletion 记录单个资源的完成/取消完成，并重算总体进度。
// 只有 resource/quiz/survey 计入分母，section 仅做组织用途不可标记。
func (s *ProgressService) MarkCompletion(ctx context.Context, userID, productID, resourceID string, completed bool) (*model.ProductProgress, error) {
	product, err := s.ProductRepo.FindPublishedByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	all, err := s.ResourceRepo.FindByProduct(productID)
	if err != nil {
		return nil, err
	}

	eligible := make(map[string]bool)
	for i := range all {
		if all[i].Type.ProgressEligible() {
			eligible[all[i].ID] = true
		}
	}
	if !eligible[resourceID] {
		return nil, util.ErrResourceNotEligible
	}

	p, err := s.ProgressRepo.Find(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &model.ProductProgress{
			UserID:             userID,
			HostID:             product.HostID,
			ProductID:          productID,
			CompletedResources: []model.CompletedResource{},
		}
	}

	p.CompletedResources = reconcileCompletion(p.CompletedResources, eligible, resourceID, completed)
	p.Progress, p.Status = computeProgress(p.CompletedResources, eligible)

	if err := s.ProgressRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateTracking 更新最近学习位置标记，不影响完成度
func (s *ProgressService) UpdateTracking(ctx context.Context, userID, productID string, tracking model.ProgressTracking) error {
	product, err := s.ProductRepo.FindPublishedByID(ctx, productID)
	if err != nil {
		return err
	}
	return s.ProgressRepo.UpdateTracking(ctx, userID, product.HostID, productID, tracking)
}

// reconcileCompletion 更新单条完成记录，保持每个资源至多一条记录。
// 存量记录里引用已删除或已不计入进度的资源的条目一并清除，避免无限累积
func reconcileCompletion(records []model.CompletedResource, eligible map[string]bool, resourceID string, completed bool) []model.CompletedResource {
	now := time.Now().UTC()
	out := make([]model.CompletedResource, 0, len(records)+1)
	found := false
	for _, r := range records {
		if !eligible[r.ResourceID] {
			continue
		}
		if r.ResourceID == resourceID {
			found = true
			r.Completed = completed
			r.CompletedAt = completedAt(completed, now)
		}
		out = append(out, r)
	}
	if !found {
		out = append(out, model.CompletedResource{
			ResourceID:  resourceID,
			Completed:   completed,
			CompletedAt: completedAt(completed, now),
		})
	}
	return out
}

func completedAt(completed bool, now time.Time) *time.Time {
	if completed {
		return &now
	}
	return nil
}

// computeProgress 以计入进度的资源数为分母求完成百分比，四舍五入取整。
// 完成记录可能引用已删除的资源，分子只数仍然存在且计入进度的资源，
// 并钳制在分母以内，保证百分比不超过100。
func computeProgress(records []model.CompletedResource, eligible map[string]bool) (int, model.ProgressStatus) {
	if len(eligible) == 0 {
		return 0, model.NotStarted
	}

	done := 0
	for _, r := range records {
		if r.Completed && eligible[r.ResourceID] {
			done++
		}
	}
	if done > len(eligible) {
		done = len(eligible)
	}

	// 状态跟随取整后的百分比：0为未开始，100为已完成
	pct := int(math.Round(float64(done) / float64(len(eligible)) * 100))
	switch {
	case pct <= 0:
		return 0, model.NotStarted
	case pct >= 100:
		return 100, model.Completed
	default:
		return pct, model.InProgress
	}
}
