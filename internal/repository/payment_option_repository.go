package repository

import (
	"bookhive_backend/internal/model"

	"gorm.io/gorm"
)

type PaymentOptionRepository struct {
	DB *gorm.DB
}

func NewPaymentOptionRepository(db *gorm.DB) *PaymentOptionRepository {
	return &PaymentOptionRepository{DB: db}
}

func (r *PaymentOptionRepository) Create(option *model.PaymentOption) error {
	return r.DB.Create(option).Error
}

func (r *PaymentOptionRepository) FindByID(id string) (*model.PaymentOption, error) {
	var option model.PaymentOption
	err := r.DB.Where("id = ?", id).First(&option).Error
	return &option, err
}

func (r *PaymentOptionRepository) FindByHost(hostID string) ([]model.PaymentOption, error) {
	var options []model.PaymentOption
	err := r.DB.Where("host_id = ?", hostID).Find(&options).Error
	return options, err
}

func (r *PaymentOptionRepository) FindEnabledByHost(hostID string) ([]model.PaymentOption, error) {
	var options []model.PaymentOption
	err := r.DB.Where("host_id = ? AND enabled = ?", hostID, true).Find(&options).Error
	return options, err
}

func (r *PaymentOptionRepository) Update(option *model.PaymentOption) error {
	return r.DB.Save(option).Error
}

func (r *PaymentOptionRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.PaymentOption{}).Error
}
