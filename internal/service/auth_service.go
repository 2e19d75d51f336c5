package service

import (
	"bookhive_backend/internal/config"
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/repository"
	"bookhive_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const temporalTokenTTL = 10 * time.Minute

type AuthService struct {
	UserRepo *repository.UserRepository
	Redis    *redis.Client
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{UserRepo: userRepo, Redis: rdb, Cfg: cfg}
}

type RegisterInput struct {
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=8"`
	Name     string         `json:"name" binding:"required"`
	Role     model.UserRole `json:"role" binding:"omitempty,oneof=guest host"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProviderLoginInput 第三方登录，身份断言已由前端从提供商换取
type ProviderLoginInput struct {
	Provider string `json:"provider" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

// AuthResult 登录/注册成功后的返回体
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if _, err := s.UserRepo.FindByEmail(in.Email); err == nil {
		return nil, util.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = model.Guest
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(in.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Disabled {
		return nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// ProviderLogin 第三方身份登录，首次登录时自动建号。
// 同邮箱已有本地密码账号时不自动合并，返回认证异常由前端引导走密码登录。
func (s *AuthService) ProviderLogin(ctx context.Context, in ProviderLoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(in.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{
			Email:     in.Email,
			Name:      in.Name,
			Role:      model.Guest,
			AvatarURL: in.Avatar,
			Provider:  in.Provider,
		}
		if err := s.UserRepo.Create(user); err != nil {
			return nil, err
		}
		return s.issueToken(user)
	}
	if err != nil {
		return nil, err
	}

	if user.Provider != in.Provider {
		return nil, util.ErrAuthException
	}
	if user.Disabled {
		return nil, util.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// CreateTemporalToken 签发一次性短时令牌，存入 Redis 并设置过期
func (s *AuthService) CreateTemporalToken(ctx context.Context, userID string) (string, error) {
	token := util.GenerateRandomString(48)
	key := fmt.Sprintf("temporal_token:%s", token)
	if err := s.Redis.Set(ctx, key, userID, temporalTokenTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeTemporalToken 校验并销毁一次性令牌，换发正式会话
func (s *AuthService) ConsumeTemporalToken(ctx context.Context, token string) (*AuthResult, error) {
	key := fmt.Sprintf("temporal_token:%s", token)
	userID, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrTemporalTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	s.Redis.Del(ctx, key)

	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTemporalTokenInvalid
	}
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *AuthService) Profile(userID string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) UpdateProfile(userID string, name, avatar string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if avatar != "" {
		user.AvatarURL = avatar
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueToken(user *model.User) (*AuthResult, error) {
	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
