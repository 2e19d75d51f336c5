package model

import "time"

type ProgressStatus string

const (
	NotStarted ProgressStatus = "not_started"
	InProgress ProgressStatus = "in_progress"
	Completed  ProgressStatus = "completed"
)

// ProgressTracking 最近学习位置标记
type ProgressTracking struct {
	LastResourceID string  `bson:"lastResourceId" json:"lastResourceId"`
	Seconds        float64 `bson:"seconds" json:"seconds"`
}

// CompletedResource 单个资源的完成记录
type CompletedResource struct {
	ResourceID  string     `bson:"resourceId" json:"resourceId"`
	Completed   bool       `bson:"completed" json:"completed"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// ProductProgress 每个用户在一个产品上的学习进度（文档库）
// swagger:model ProductProgress
type ProductProgress struct {
	ID                 string              `bson:"_id" json:"id"`
	UserID             string              `bson:"userId" json:"userId"`
	HostID             string              `bson:"hostId" json:"hostId"`
	ProductID          string              `bson:"productId" json:"productId"`
	Tracking           ProgressTracking    `bson:"tracking" json:"tracking"`
	CompletedResources []CompletedResource `bson:"completedResources" json:"completedResources"`
	Progress           int                 `bson:"progress" json:"progress"`
	Status             ProgressStatus      `bson:"status" json:"status"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}
