package repository

import (
	"bookhive_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

func (r *ResourceRepository) FindByID(id string) (*model.Resource, error) {
	var resource model.Resource
	err := r.DB.Where("id = ?", id).First(&resource).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &resource, err
}

// FindByProduct 返回产品下的全部资源行，树结构由聚合器在内存中构建
func (r *ResourceRepository) FindByProduct(productID string) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.DB.Where("product_id = ?", productID).Order("order_index ASC").Find(&resources).Error
	return resources, err
}

func (r *ResourceRepository) UpdateFields(id string, updates map[string]interface{}) error {
	return r.DB.Model(&model.Resource{}).Where("id = ?", id).Updates(updates).Error
}

// OrderUpdate 重排序批量更新中的一项
type OrderUpdate struct {
	ResourceID string
	Order      int
	ParentID   *string
	SetParent  bool // 为false时不改动父节点
}

// BatchUpdateOrder 在单个事务中应用整批排序更新，任一失败全部回滚
func (r *ResourceRepository) BatchUpdateOrder(updates []OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			fields := map[string]interface{}{"order_index": u.Order}
			if u.SetParent {
				fields["parent_id"] = u.ParentID
			}
			if err := tx.Model(&model.Resource{}).Where("id = ?", u.ResourceID).Updates(fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ResourceRepository) DeleteByIDs(tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("id IN ?", ids).Delete(&model.Resource{}).Error
}
