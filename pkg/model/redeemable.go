package model

import "time"

const (
	RedeemableGift   = "gift"
	RedeemableCoupon = "coupon"
)

type Redeemable struct {
	ID          string     `json:"id,omitempty" bson:"_id,omitempty"`
	Type        string     `json:"type" bson:"type"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	PointUse    int64      `json:"pointUse" bson:"point_use"`
	Discount    float64    `json:"discount,omitempty" bson:"discount,omitempty"`
	RemainCount int        `json:"remainCount" bson:"remain_count"`
	Expire      *time.Time `json:"expire,omitempty" bson:"expire,omitempty"`
}

// Setting is a named global value, such as the price-to-point ratio.
type Setting struct {
	Name  string  `json:"name" bson:"name"`
	Value float64 `json:"value" bson:"value"`
}

const SettingPriceToPoint = "priceToPoint"
