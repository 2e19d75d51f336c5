package service

import (
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/repository"
	"bookhive_backend/internal/util"
	"bookhive_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const filtersCacheTTL = 5 * time.Minute

// withdrawalMethod 平台支持的提现渠道，门槛以欧元计价
type withdrawalMethod struct {
	Method    string  `json:"method"`
	MinAmount float64 `json:"minAmount"`
}

var withdrawalMethods = []withdrawalMethod{
	{Method: "bank_transfer", MinAmount: 50},
	{Method: "paypal", MinAmount: 10},
	{Method: "wise", MinAmount: 20},
}

type SettingsService struct {
	ProductRepo *repository.ProductRepository
	PaymentRepo *repository.PaymentOptionRepository
	Exchange    *ExchangeService
	Storage     *StorageService
	Redis       *redis.Client
}

func NewSettingsService(
	productRepo *repository.ProductRepository,
	paymentRepo *repository.PaymentOptionRepository,
	exchange *ExchangeService,
	storage *StorageService,
	rdb *redis.Client,
) *SettingsService {
	return &SettingsService{
		ProductRepo: productRepo,
		PaymentRepo: paymentRepo,
		Exchange:    exchange,
		Storage:     storage,
		Redis:       rdb,
	}
}

// Filters 主办方已发布产品的筛选项汇总，结果缓存在 Redis
func (s *SettingsService) Filters(ctx context.Context, hostID string) (*repository.FilterAggregation, error) {
	key := fmt.Sprintf("settings_filters:%s", hostID)

	if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
		var agg repository.FilterAggregation
		if json.Unmarshal([]byte(cached), &agg) == nil {
			return &agg, nil
		}
	}

	agg, err := s.ProductRepo.AggregateFilters(ctx, hostID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(agg); err == nil {
		s.Redis.Set(ctx, key, raw, filtersCacheTTL)
	}
	return agg, nil
}

// WithdrawalMethodView 换算到目标币种后的提现渠道
type WithdrawalMethodView struct {
	Method    string  `json:"method"`
	MinAmount float64 `json:"minAmount"`
	Currency  string  `json:"currency"`
}

// WithdrawalMethods 提现渠道及门槛，按请求币种换算。
// 汇率源不可用时回退欧元原值，不阻塞设置页。
func (s *SettingsService) WithdrawalMethods(ctx context.Context, currency string) []WithdrawalMethodView {
	views := make([]WithdrawalMethodView, 0, len(withdrawalMethods))
	for _, m := range withdrawalMethods {
		amount, err := s.Exchange.Convert(ctx, m.MinAmount, "EUR", currency)
		cur := currency
		if err != nil {
			logger.Log.Warn("exchange conversion failed, falling back to EUR",
				zap.String("currency", currency), zap.Error(err))
			amount, cur = m.MinAmount, "EUR"
		}
		views = append(views, WithdrawalMethodView{
			Method:    m.Method,
			MinAmount: math.Round(amount*100) / 100,
			Currency:  cur,
		})
	}
	return views
}

func (s *SettingsService) ListPaymentOptions(hostID string) ([]model.PaymentOption, error) {
	return s.PaymentRepo.FindByHost(hostID)
}

func (s *SettingsService) CreatePaymentOption(hostID string, option *model.PaymentOption) error {
	option.HostID = hostID
	return s.PaymentRepo.Create(option)
}

func (s *SettingsService) UpdatePaymentOption(hostID, optionID string, updates *model.PaymentOption) (*model.PaymentOption, error) {
	option, err := s.PaymentRepo.FindByID(optionID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && option.HostID != hostID) {
		return nil, util.ErrPaymentOptionNotFound
	}
	if err != nil {
		return nil, err
	}

	if updates.Method != "" {
		option.Method = updates.Method
	}
	if updates.Currency != "" {
		option.Currency = updates.Currency
	}
	if updates.Details != nil {
		option.Details = updates.Details
	}
	option.Enabled = updates.Enabled

	if err := s.PaymentRepo.Update(option); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *SettingsService) DeletePaymentOption(hostID, optionID string) error {
	option, err := s.PaymentRepo.FindByID(optionID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && option.HostID != hostID) {
		return util.ErrPaymentOptionNotFound
	}
	if err != nil {
		return err
	}
	return s.PaymentRepo.Delete(optionID)
}

// PresignUpload 生成浏览器直传地址，仅对象存储后端可用
func (s *SettingsService) PresignUpload(ctx context.Context, hostID, filename string) (string, string, error) {
	path := fmt.Sprintf("hosts/%s/uploads/%s_%s", hostID, util.GenerateRandomString(8), filename)
	url, err := s.Storage.PresignUpload(ctx, path, 15*time.Minute)
	if err != nil {
		return "", "", err
	}
	return url, path, nil
}

// DeleteFile 删除主办方名下的存储文件
func (s *SettingsService) DeleteFile(ctx context.Context, hostID, path string) error {
	prefix := fmt.Sprintf("hosts/%s/", hostID)
	if len(path) < len(prefix) || path[:len(prefix)] != prefix {
		return util.ErrPermissionDenied
	}
	return s.Storage.Delete(ctx, path)
}
