package repository

import (
	"bookhive_backend/internal/model"

	"gorm.io/gorm"
)

type MultimediaRepository struct {
	DB *gorm.DB
}

func NewMultimediaRepository(db *gorm.DB) *MultimediaRepository {
	return &MultimediaRepository{DB: db}
}

func (r *MultimediaRepository) FindByResourceIDs(ids []string) ([]model.Multimedia, error) {
	var rows []model.Multimedia
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.DB.Where("resource_id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *MultimediaRepository) DeleteByResource(tx *gorm.DB, resourceID string) error {
	return tx.Where("resource_id = ?", resourceID).Delete(&model.Multimedia{}).Error
}

func (r *MultimediaRepository) DeleteByResourceIDs(tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("resource_id IN ?", ids).Delete(&model.Multimedia{}).Error
}
