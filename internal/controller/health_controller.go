package controller

import (
	"bookhive_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Mongo *mongo.Client
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, mongoClient *mongo.Client, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Mongo: mongoClient, Redis: rdb}
}

// @Summary 健康检查
// @Description 检查数据库、文档库和缓存的连通性
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response "依赖不可用"
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{"database": "up", "mongo": "up", "redis": "up"}
	healthy := true

	sqlDB, err := c.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		components["database"] = "down"
		healthy = false
	}

	if err := c.Mongo.Ping(ctx.Request.Context(), readpref.Primary()); err != nil {
		components["mongo"] = "down"
		healthy = false
	}

	if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
		components["redis"] = "down"
		healthy = false
	}

	if !healthy {
		ctx.JSON(http.StatusServiceUnavailable, util.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "degraded",
			Data:    gin.H{"status": "degraded", "components": components},
		})
		return
	}

	util.Success(ctx, gin.H{"status": "ok", "components": components})
}
