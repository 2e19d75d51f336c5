package service

import (
	"bookhive_backend/internal/config"
	"bookhive_backend/internal/model"
	"bookhive_backend/pkg/logger"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ContentMode 决定签发公开预览地址还是私有访问地址
type ContentMode string

const (
	ModePublic  ContentMode = "public"
	ModePrivate ContentMode = "private"
)

// ResourceStrategy 按多媒体来源封装地址签发和资产删除两种操作
type ResourceStrategy interface {
	GetPublicURL(ctx context.Context, m *model.Multimedia, mode ContentMode) (string, error)
	DeleteResource(ctx context.Context, m *model.Multimedia) error
}

// StrategyDispatcher 静态查表分发，未登记的来源返回 nil，调用方视作跳过
type StrategyDispatcher struct {
	strategies map[model.MultimediaSource]ResourceStrategy
}

func NewStrategyDispatcher(storage *StorageService, signer *CDNSigner, cfg *config.Config) *StrategyDispatcher {
	return &StrategyDispatcher{
		strategies: map[model.MultimediaSource]ResourceStrategy{
			model.SourceStorage:   &storageStrategy{storage: storage, signer: signer},
			model.SourceVod:       &vodStrategy{cfg: &cfg.Vod},
			model.SourceVodStream: &vodStreamStrategy{cfg: &cfg.Vod},
		},
	}
}

// For 返回来源对应的策略，未登记时为 nil
func (d *StrategyDispatcher) For(source model.MultimediaSource) ResourceStrategy {
	return d.strategies[source]
}

// DeleteBestEffort 并发删除供应商侧资产（主资产与缩略图互不依赖），
// 单条失败只记日志不中断，与数据库删除不在同一事务内
func (d *StrategyDispatcher) DeleteBestEffort(ctx context.Context, rows []model.Multimedia) {
	var wg sync.WaitGroup
	for i := range rows {
		strategy := d.For(rows[i].Source)
		if strategy == nil {
			continue
		}
		wg.Add(1)
		go func(m *model.Multimedia) {
			defer wg.Done()
			if err := strategy.DeleteResource(ctx, m); err != nil {
				logger.Log.Error("multimedia cleanup failed",
					zap.String("resourceId", m.ResourceID),
					zap.String("path", m.Path),
					zap.Error(err))
			}
		}(&rows[i])
	}
	wg.Wait()
}

// storageStrategy 平台自有存储：公开内容直出CDN路径，私有内容签名URL
type storageStrategy struct {
	storage *StorageService
	signer  *CDNSigner
}

func (s *storageStrategy) GetPublicURL(ctx context.Context, m *model.Multimedia, mode ContentMode) (string, error) {
	if mode == ModePublic {
		return s.signer.BaseURL(m.Path), nil
	}
	return s.signer.SignURL(m.Path)
}

func (s *storageStrategy) DeleteResource(ctx context.Context, m *model.Multimedia) error {
	return s.storage.Delete(ctx, m.Path)
}

// vodStrategy 视频供应商普通存储：令牌走签名查询串
type vodStrategy struct {
	cfg *config.VodConfig
}

func (s *vodStrategy) GetPublicURL(ctx context.Context, m *model.Multimedia, mode ContentMode) (string, error) {
	expires := time.Now().Add(s.cfg.TokenExpiry).Unix()
	token := signVodToken(s.cfg.APISecret, m.Path, expires)

	q := url.Values{}
	q.Set("token", token)
	q.Set("expires", strconv.FormatInt(expires, 10))
	return fmt.Sprintf("%s/%s?%s", s.cfg.Endpoint, trimLeadingSlash(m.Path), q.Encode()), nil
}

func (s *vodStrategy) DeleteResource(ctx context.Context, m *model.Multimedia) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/%s", s.cfg.Endpoint, trimLeadingSlash(m.Path)), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Apisecret "+s.cfg.APISecret)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("vod delete returned %d", resp.StatusCode)
	}
	return nil
}

// vodStreamStrategy 流媒体通道：令牌嵌在路径段中
type vodStreamStrategy struct {
	cfg *config.VodConfig
}

func (s *vodStreamStrategy) GetPublicURL(ctx context.Context, m *model.Multimedia, mode ContentMode) (string, error) {
	expires := time.Now().Add(s.cfg.TokenExpiry).Unix()
	token := signVodToken(s.cfg.APISecret, m.Path, expires)
	return fmt.Sprintf("%s/stream/%s/%d/%s", s.cfg.Endpoint, token, expires, trimLeadingSlash(m.Path)), nil
}

func (s *vodStreamStrategy) DeleteResource(ctx context.Context, m *model.Multimedia) error {
	// 流媒体通道与普通存储共用同一份源资产，删除走普通存储接口
	return (&vodStrategy{cfg: s.cfg}).DeleteResource(ctx, m)
}

func signVodToken(secret, path string, expires int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:%d", trimLeadingSlash(path), expires)
	return hex.EncodeToString(mac.Sum(nil))
}
