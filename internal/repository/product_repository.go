package repository

import (
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/util"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository 产品聚合的文档库访问层
type ProductRepository struct {
	c *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{c: db.Collection("products")}
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = model.GenerateUUID()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.c.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return util.ErrAliasAlreadyExists
	}
	return err
}

func (r *ProductRepository) FindByID(ctx context.Context, hostID, productID string) (*model.Product, error) {
	var p model.Product
	err := r.c.FindOne(ctx, bson.M{"_id": productID, "hostId": hostID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.ErrProductNotFound
	}
	return &p, err
}

func (r *ProductRepository) FindPublished(ctx context.Context, hostID, productID string) (*model.Product, error) {
	var p model.Product
	err := r.c.FindOne(ctx, bson.M{"_id": productID, "hostId": hostID, "isPublished": true}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.ErrProductNotFound
	}
	return &p, err
}

// FindPublishedByID 访客侧按ID取已发布产品，不限定归属主理人
func (r *ProductRepository) FindPublishedByID(ctx context.Context, productID string) (*model.Product, error) {
	var p model.Product
	err := r.c.FindOne(ctx, bson.M{"_id": productID, "isPublished": true}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.ErrProductNotFound
	}
	return &p, err
}

func (r *ProductRepository) ListByHost(ctx context.Context, hostID string) ([]model.Product, error) {
	cur, err := r.c.Find(ctx, bson.M{"hostId": hostID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var products []model.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateFields 按字段部分更新，alias 冲突转换为领域错误
func (r *ProductRepository) UpdateFields(ctx context.Context, hostID, productID string, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": productID, "hostId": hostID},
		bson.M{"$set": fields},
	)
	if mongo.IsDuplicateKeyError(err) {
		return util.ErrAliasAlreadyExists
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, hostID, productID string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": productID, "hostId": hostID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return util.ErrProductNotFound
	}
	return nil
}

// UpdateMetrics 资源增删改后刷新产品上的汇总指标
func (r *ProductRepository) UpdateMetrics(ctx context.Context, productID string, metrics model.ResourceMetrics) error {
	_, err := r.c.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{"metrics": metrics, "updatedAt": time.Now().UTC()}},
	)
	return err
}

func (r *ProductRepository) AddNotification(ctx context.Context, hostID, productID string, n model.Notification) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": productID, "hostId": hostID},
		bson.M{"$push": bson.M{"notifications": n}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) UpdateNotification(ctx context.Context, hostID, productID string, n model.Notification) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": productID, "hostId": hostID, "notifications.id": n.ID},
		bson.M{"$set": bson.M{"notifications.$": n, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) RemoveNotification(ctx context.Context, hostID, productID, notificationID string) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": productID, "hostId": hostID},
		bson.M{"$pull": bson.M{"notifications": bson.M{"id": notificationID}}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.ErrProductNotFound
	}
	return nil
}

// FilterAggregation 设置页筛选项的聚合结果
type FilterAggregation struct {
	Categories []string `bson:"categories" json:"categories"`
	Currencies []string `bson:"currencies" json:"currencies"`
	MinPrice   float64  `bson:"minPrice" json:"minPrice"`
	MaxPrice   float64  `bson:"maxPrice" json:"maxPrice"`
}

// AggregateFilters 汇总已发布产品的分类/币种/价格区间，供搜索筛选使用
func (r *ProductRepository) AggregateFilters(ctx context.Context, hostID string) (*FilterAggregation, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"hostId": hostID, "isPublished": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"categories": bson.M{"$addToSet": "$category"},
			"currencies": bson.M{"$addToSet": "$currency"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
	}

	cur, err := r.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []FilterAggregation
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &FilterAggregation{Categories: []string{}, Currencies: []string{}}, nil
	}
	return &results[0], nil
}
