package model

import "time"

// ResourceMetrics 产品下所有资源的汇总指标，资源增删改后重新计算
type ResourceMetrics struct {
	TotalDuration  int `bson:"totalDuration" json:"totalDuration"`
	TotalSections  int `bson:"totalSections" json:"totalSections"`
	TotalResources int `bson:"totalResources" json:"totalResources"`
	TotalSize      int `bson:"totalSize" json:"totalSize"`
}

// AvailabilitySlot 每周固定可预约时段，weekday 0=周日
type AvailabilitySlot struct {
	Weekday int    `bson:"weekday" json:"weekday" binding:"min=0,max=6"`
	Start   string `bson:"start" json:"start" binding:"required,hhmm"` // "HH:MM"
	End     string `bson:"end" json:"end" binding:"required,hhmm"`
}

// ProductDate 可预约的具体场次
type ProductDate struct {
	ID       string    `bson:"id" json:"id"`
	StartsAt time.Time `bson:"startsAt" json:"startsAt"`
	EndsAt   time.Time `bson:"endsAt" json:"endsAt"`
	Capacity int       `bson:"capacity" json:"capacity"`
	Booked   int       `bson:"booked" json:"booked"`
}

// ProductPlan 售卖方案
type ProductPlan struct {
	ID       string  `bson:"id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Currency string  `bson:"currency" json:"currency"`
	Sessions int     `bson:"sessions" json:"sessions"`
}

// Notification 产品内嵌的通知配置
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	SendAt    time.Time `bson:"sendAt" json:"sendAt"`
	Channel   string    `bson:"channel" json:"channel"` // email / telegram
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Product 产品聚合，存放在文档库（含内嵌的场次/方案/通知/指标）
// swagger:model Product
type Product struct {
	ID                 string             `bson:"_id" json:"id"`
	HostID             string             `bson:"hostId" json:"hostId"`
	Title              string             `bson:"title" json:"title"`
	Alias              string             `bson:"alias" json:"alias"`
	Description        string             `bson:"description" json:"description,omitempty"`
	Category           string             `bson:"category" json:"category,omitempty"`
	Currency           string             `bson:"currency" json:"currency"`
	Price              float64            `bson:"price" json:"price"`
	IsPublished        bool               `bson:"isPublished" json:"isPublished"`
	WeeklyAvailability []AvailabilitySlot `bson:"weeklyAvailability,omitempty" json:"weeklyAvailability,omitempty"`
	Dates              []ProductDate      `bson:"dates,omitempty" json:"dates,omitempty"`
	Plans              []ProductPlan      `bson:"plans,omitempty" json:"plans,omitempty"`
	Notifications      []Notification     `bson:"notifications,omitempty" json:"notifications,omitempty"`
	Metrics            ResourceMetrics    `bson:"metrics" json:"metrics"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
