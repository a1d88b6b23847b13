// Package events defines the payloads exchanged between salonhub services
// over Kafka.
package events

import "time"

const (
	TopicBookings    = "salonhub.bookings"
	TopicBookingsDLQ = "salonhub.bookings.dlq"
	TopicLoyalty     = "salonhub.loyalty"
	TopicLoyaltyDLQ  = "salonhub.loyalty.dlq"

	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
	TypeLoyaltyTierUpgraded  = "loyalty.tier_upgraded"
)

// BookingCreated is emitted once a paid booking has been composed and
// persisted. The loyalty service accrues points from TotalAmount.
type BookingCreated struct {
	BookingID   string    `json:"booking_id"`
	CustomerID  string    `json:"customer_id"`
	ProviderID  string    `json:"provider_id"`
	TotalAmount float64   `json:"total_amount"`
	PeopleCount int       `json:"people_count"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// BookingStatusChanged is emitted on upcoming→completed and
// upcoming→cancelled transitions.
type BookingStatusChanged struct {
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
	ProviderID string `json:"provider_id"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
}

// LoyaltyTierUpgraded notifies downstream consumers (notifications) that
// a customer reached a new tier.
type LoyaltyTierUpgraded struct {
	CustomerID string `json:"customer_id"`
	OldTier    string `json:"old_tier"`
	NewTier    string `json:"new_tier"`
	Points     int64  `json:"points"`
}
