package service

import (
	"bookhive_backend/internal/config"
	"bookhive_backend/pkg/logger"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/cloudfront/sign"
	"go.uber.org/zap"
)

// CDNSigner 为平台自有存储的私有内容生成签名URL和签名Cookie。
// 未配置签名密钥时降级为直出CDN地址（开发环境）。
type CDNSigner struct {
	Domain       string
	expiry       time.Duration
	urlSigner    *sign.URLSigner
	cookieSigner *sign.CookieSigner
}

func NewCDNSigner(cfg *config.CDNConfig) *CDNSigner {
	s := &CDNSigner{
		Domain: cfg.Domain,
		expiry: cfg.SignExpiry,
	}
	if s.expiry <= 0 {
		s.expiry = time.Hour
	}

	if cfg.KeyID == "" || cfg.PrivateKeyPath == "" {
		logger.Log.Warn("CDN signing key not configured, private content will use plain CDN URLs")
		return s
	}

	privKey, err := sign.LoadPEMPrivKeyFile(cfg.PrivateKeyPath)
	if err != nil {
		logger.Log.Error("Failed to load CDN private key", zap.Error(err))
		return s
	}

	s.urlSigner = sign.NewURLSigner(cfg.KeyID, privKey)
	s.cookieSigner = sign.NewCookieSigner(cfg.KeyID, privKey)
	return s
}

// BaseURL 指定路径的未签名CDN地址
func (s *CDNSigner) BaseURL(path string) string {
	return "https://" + s.Domain + "/" + trimLeadingSlash(path)
}

// SignURL 生成带签名路径段的临时访问地址
func (s *CDNSigner) SignURL(path string) (string, error) {
	raw := s.BaseURL(path)
	if s.urlSigner == nil {
		return raw, nil
	}
	return s.urlSigner.Sign(raw, time.Now().Add(s.expiry))
}

// SignCookies 对整个产品目录前缀签发访问Cookie，用于访客的资源直连播放
func (s *CDNSigner) SignCookies(pathPrefix string) ([]*http.Cookie, error) {
	if s.cookieSigner == nil {
		return nil, nil
	}
	return s.cookieSigner.Sign(s.BaseURL(pathPrefix), time.Now().Add(s.expiry), func(o *sign.CookieOptions) {
		o.Domain = s.Domain
		o.Path = "/"
		o.Secure = true
	})
}
