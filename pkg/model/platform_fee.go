package model

import "time"

const (
	FeeModeNone       = "none"
	FeeModePercentage = "percentage"
	FeeModeFixed      = "fixed"
)

// PlatformFeeConfig is the operator-wide surcharge configuration.
// Value is a percent for percentage mode, a per-head amount for fixed
// mode, and ignored for none.
type PlatformFeeConfig struct {
	Mode      string    `json:"mode" bson:"mode" validate:"required,oneof=none percentage fixed"`
	Value     float64   `json:"value" bson:"value" validate:"gte=0"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}
