package service

import (
	"bookhive_backend/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
)

// ExchangeService 拉取汇率并做 Redis 缓存，汇率只用于提现门槛换算
type ExchangeService struct {
	Cfg    *config.ExchangeConfig
	Redis  *redis.Client
	Client *http.Client
}

func NewExchangeService(cfg *config.ExchangeConfig, rdb *redis.Client) *ExchangeService {
	return &ExchangeService{
		Cfg:    cfg,
		Redis:  rdb,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Rates 返回以 base 计价的汇率表，优先走缓存
func (s *ExchangeService) Rates(ctx context.Context, base string) (map[string]float64, error) {
	key := fmt.Sprintf("exchange_rates:%s", base)

	cached, err := s.Redis.Get(ctx, key).Result()
	if err == nil {
		var rates map[string]float64
		if json.Unmarshal([]byte(cached), &rates) == nil {
			return rates, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	rates, err := s.fetch(ctx, base)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(rates); err == nil {
		ttl := s.Cfg.CacheMinutes
		if ttl <= 0 {
			ttl = time.Hour
		}
		s.Redis.Set(ctx, key, raw, ttl)
	}
	return rates, nil
}

// Convert 金额换汇，同币种原样返回
func (s *ExchangeService) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}

	rates, err := s.Rates(ctx, from)
	if err != nil {
		return 0, err
	}
	rate, ok := rates[to]
	if !ok || rate == 0 {
		return 0, fmt.Errorf("no exchange rate for %s/%s", from, to)
	}
	return amount * rate, nil
}

func (s *ExchangeService) fetch(ctx context.Context, base string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/latest?base=%s", s.Cfg.BaseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if s.Cfg.APIKey != "" {
		req.Header.Set("Authorization", "ApiKey "+s.Cfg.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rates api returned %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Rates, nil
}
