package model

import "gorm.io/datatypes"

// PaymentOption 主办方启用的支付方式
// swagger:model PaymentOption
type PaymentOption struct {
	UUIDBase
	HostID   string         `gorm:"size:36;index;not null" json:"hostId"`
	Method   string         `gorm:"size:50;not null" json:"method"` // card / bank_transfer / paypal ...
	Currency string         `gorm:"size:3;not null" json:"currency"`
	Details  datatypes.JSON `json:"details,omitempty"`
	Enabled  bool           `gorm:"default:true" json:"enabled"`
}

func (PaymentOption) TableName() string {
	return "payment_options"
}
