package repository

import (
	"bookhive_backend/internal/model"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProgressRepository 用户学习进度的文档库访问层
type ProgressRepository struct {
	c *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{c: db.Collection("product_progress")}
}

// Find 返回进度文档，不存在时返回 nil 而非错误，由服务层决定初始状态
func (r *ProgressRepository) Find(ctx context.Context, userID, productID string) (*model.ProductProgress, error) {
	var p model.ProductProgress
	err := r.c.FindOne(ctx, bson.M{"userId": userID, "productId": productID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) Upsert(ctx context.Context, p *model.ProductProgress) error {
	if p.ID == "" {
		p.ID = model.GenerateUUID()
	}
	p.UpdatedAt = time.Now().UTC()

	_, err := r.c.ReplaceOne(ctx,
		bson.M{"userId": p.UserID, "productId": p.ProductID},
		p,
		options.Replace().SetUpsert(true),
	)
	return err
}

// UpdateTracking 仅更新最近学习位置标记
func (r *ProgressRepository) UpdateTracking(ctx context.Context, userID, hostID, productID string, tracking model.ProgressTracking) error {
	_, err := r.c.UpdateOne(ctx,
		bson.M{"userId": userID, "productId": productID},
		bson.M{
			"$set": bson.M{"tracking": tracking, "updatedAt": time.Now().UTC()},
			"$setOnInsert": bson.M{
				"_id":                model.GenerateUUID(),
				"userId":             userID,
				"hostId":             hostID,
				"productId":          productID,
				"completedResources": []model.CompletedResource{},
				"progress":           0,
				"status":             model.NotStarted,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ProgressRepository) DeleteByProduct(ctx context.Context, productID string) error {
	_, err := r.c.DeleteMany(ctx, bson.M{"productId": productID})
	return err
}
