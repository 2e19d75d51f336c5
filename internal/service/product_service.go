package service

import (
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/repository"
	"bookhive_backend/internal/util"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"
)

type ProductService struct {
	ProductRepo    *repository.ProductRepository
	ResourceRepo   *repository.ResourceRepository
	MultimediaRepo *repository.MultimediaRepository
	ProgressRepo   *repository.ProgressRepository
	PaymentRepo    *repository.PaymentOptionRepository
	Strategies     *StrategyDispatcher
	DB             *gorm.DB
}

func NewProductService(
	productRepo *repository.ProductRepository,
	resourceRepo *repository.ResourceRepository,
	multimediaRepo *repository.MultimediaRepository,
	progressRepo *repository.ProgressRepository,
	paymentRepo *repository.PaymentOptionRepository,
	strategies *StrategyDispatcher,
	db *gorm.DB,
) *ProductService {
	return &ProductService{
		ProductRepo:    productRepo,
		ResourceRepo:   resourceRepo,
		MultimediaRepo: multimediaRepo,
		ProgressRepo:   progressRepo,
		PaymentRepo:    paymentRepo,
		Strategies:     strategies,
		DB:             db,
	}
}

// CreateProductInput 创建产品的入参
type CreateProductInput struct {
	Title              string                   `json:"title" binding:"required"`
	Alias              string                   `json:"alias" binding:"required"`
	Description        string                   `json:"description"`
	Category           string                   `json:"category"`
	Currency           string                   `json:"currency" binding:"required,len=3"`
	Price              float64                  `json:"price"`
	WeeklyAvailability []model.AvailabilitySlot `json:"weeklyAvailability"`
	Plans              []model.ProductPlan      `json:"plans"`
}

func (s *ProductService) Create(ctx context.Context, hostID string, in CreateProductInput) (*model.Product, error) {
	if err := validateWeeklyAvailability(in.WeeklyAvailability); err != nil {
		return nil, err
	}

	for i := range in.Plans {
		if in.Plans[i].ID == "" {
			in.Plans[i].ID = model.GenerateUUID()
		}
	}

	product := &model.Product{
		HostID:             hostID,
		Title:              in.Title,
		Alias:              in.Alias,
		Description:        in.Description,
		Category:           in.Category,
		Currency:           in.Currency,
		Price:              in.Price,
		WeeklyAvailability: in.WeeklyAvailability,
		Plans:              in.Plans,
	}
	if err := s.ProductRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, hostID, productID string) (*model.Product, error) {
	return s.ProductRepo.FindByID(ctx, hostID, productID)
}

func (s *ProductService) List(ctx context.Context, hostID string) ([]model.Product, error) {
	return s.ProductRepo.ListByHost(ctx, hostID)
}

// Update 按字段部分更新，提交了每周可预约时段时先做重叠校验
func (s *ProductService) Update(ctx context.Context, hostID, productID string, fields bson.M) (*model.Product, error) {
	if raw, ok := fields["weeklyAvailability"]; ok {
		slots, ok := raw.([]model.AvailabilitySlot)
		if ok {
			if err := validateWeeklyAvailability(slots); err != nil {
				return nil, err
			}
		}
	}
	if err := s.ProductRepo.UpdateFields(ctx, hostID, productID, fields); err != nil {
		return nil, err
	}
	return s.ProductRepo.FindByID(ctx, hostID, productID)
}

// Delete 删除产品并级联清空其资源树、多媒体关联和所有用户进度
func (s *ProductService) Delete(ctx context.Context, hostID, productID string) error {
	if _, err := s.ProductRepo.FindByID(ctx, hostID, productID); err != nil {
		return err
	}

	all, err := s.ResourceRepo.FindByProduct(productID)
	if err != nil {
		return err
	}
	ids := make([]string, len(all))
	for i := range all {
		ids[i] = all[i].ID
	}

	media, err := s.MultimediaRepo.FindByResourceIDs(ids)
	if err != nil {
		return err
	}

	if len(ids) > 0 {
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.MultimediaRepo.DeleteByResourceIDs(tx, ids); err != nil {
				return err
			}
			return s.ResourceRepo.DeleteByIDs(tx, ids)
		})
		if err != nil {
			return err
		}
	}

	if err := s.ProductRepo.Delete(ctx, hostID, productID); err != nil {
		return err
	}
	if err := s.ProgressRepo.DeleteByProduct(ctx, productID); err != nil {
		return err
	}

	s.Strategies.DeleteBestEffort(ctx, media)
	return nil
}

func (s *ProductService) GetPublic(ctx context.Context, hostID, productID string) (*model.Product, error) {
	return s.ProductRepo.FindPublished(ctx, hostID, productID)
}

// PublicPaymentMethods 访客可见的支付方式，只返回已启用项
func (s *ProductService) PublicPaymentMethods(ctx context.Context, hostID, productID string) ([]model.PaymentOption, error) {
	product, err := s.ProductRepo.FindPublished(ctx, hostID, productID)
	if err != nil {
		return nil, err
	}
	return s.PaymentRepo.FindEnabledByHost(product.HostID)
}

// PublicSessions 访客可预约的场次，过滤掉已满的
func (s *ProductService) PublicSessions(ctx context.Context, hostID, productID string) ([]model.ProductDate, error) {
	product, err := s.ProductRepo.FindPublished(ctx, hostID, productID)
	if err != nil {
		return nil, err
	}

	sessions := make([]model.ProductDate, 0, len(product.Dates))
	for _, d := range product.Dates {
		if d.Capacity == 0 || d.Booked < d.Capacity {
			sessions = append(sessions, d)
		}
	}
	return sessions, nil
}

// AddDate 追加一个可预约场次
func (s *ProductService) AddDate(ctx context.Context, hostID, productID string, date model.ProductDate) (*model.Product, error) {
	product, err := s.ProductRepo.FindByID(ctx, hostID, productID)
	if err != nil {
		return nil, err
	}

	if date.ID == "" {
		date.ID = model.GenerateUUID()
	}
	date.Booked = 0
	product.Dates = append(product.Dates, date)

	if err := s.ProductRepo.UpdateFields(ctx, hostID, productID, bson.M{"dates": product.Dates}); err != nil {
		return nil, err
	}
	return product, nil
}

// RemoveDate 删除场次，已有预约的场次不可删
func (s *ProductService) RemoveDate(ctx context.Context, hostID, productID, dateID string) error {
	product, err := s.ProductRepo.FindByID(ctx, hostID, productID)
	if err != nil {
		return err
	}

	kept := make([]model.ProductDate, 0, len(product.Dates))
	found := false
	for _, d := range product.Dates {
		if d.ID == dateID {
			found = true
			if d.Booked > 0 {
				return util.ErrDateAlreadyBooked
			}
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return util.ErrProductNotFound
	}

	return s.ProductRepo.UpdateFields(ctx, hostID, productID, bson.M{"dates": kept})
}

func (s *ProductService) AddNotification(ctx context.Context, hostID, productID string, n model.Notification) (*model.Notification, error) {
	n.ID = model.GenerateUUID()
	n.CreatedAt = time.Now().UTC()
	if err := s.ProductRepo.AddNotification(ctx, hostID, productID, n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *ProductService) UpdateNotification(ctx context.Context, hostID, productID string, n model.Notification) error {
	return s.ProductRepo.UpdateNotification(ctx, hostID, productID, n)
}

func (s *ProductService) RemoveNotification(ctx context.Context, hostID, productID, notificationID string) error {
	return s.ProductRepo.RemoveNotification(ctx, hostID, productID, notificationID)
}

// validateWeeklyAvailability 同一工作日内的时段不可互相重叠。
// 时间为 "HH:MM" 字符串，字典序即时间序。
func validateWeeklyAvailability(slots []model.AvailabilitySlot) error {
	for i := 0; i < len(slots); i++ {
		if slots[i].Start >= slots[i].End {
			return util.ErrAvailabilitySlotsOverlap
		}
		for j := i + 1; j < len(slots); j++ {
			if slots[i].Weekday != slots[j].Weekday {
				continue
			}
			if slots[i].Start < slots[j].End && slots[j].Start < slots[i].End {
				return util.ErrAvailabilitySlotsOverlap
			}
		}
	}
	return nil
}
