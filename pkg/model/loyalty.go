package model

import "time"

const (
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

// CustomerLoyalty is the accumulated loyalty state of one customer.
// Points only ever grow; the tier never downgrades.
type CustomerLoyalty struct {
	CustomerID string    `json:"customer_id" bson:"_id" validate:"required,mongodb"`
	Points     int64     `json:"points" bson:"points" validate:"gte=0"`
	Tier       string    `json:"tier" bson:"tier" validate:"required,oneof=Silver Gold Platinum"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// TierRank orders tiers so upgrades can be compared. Unknown tiers rank
// below Silver and are normalized on the next accrual.
func TierRank(tier string) int {
	switch tier {
	case TierPlatinum:
		return 3
	case TierGold:
		return 2
	case TierSilver:
		return 1
	default:
		return 0
	}
}
