package model

import (
	"time"
)

const (
	StatusUpcoming  = "upcoming"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// GroupMember is one person inside a group booking together with the
// services they picked. Selections of different members are billed
// independently even when they pick the same service.
type GroupMember struct {
	Label      string   `json:"label" bson:"label" validate:"required,min=1,max=50,member_label"`
	ServiceIDs []string `json:"service_ids" bson:"service_ids" validate:"required,min=1,unique,dive,mongodb"`
}

type Booking struct {
	ID             string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	ServiceIDs     []string      `json:"service_ids" bson:"service_ids" validate:"required,min=1,unique,dive,mongodb"`
	CustomerID     string        `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	ProviderID     string        `json:"provider_id" bson:"provider_id" validate:"required,mongodb"`
	ScheduledAt    time.Time     `json:"scheduled_at" bson:"scheduled_at" validate:"required"`
	Subtotal       float64       `json:"subtotal" bson:"subtotal" validate:"gte=0"`
	PlatformFee    float64       `json:"platform_fee" bson:"platform_fee" validate:"gte=0"`
	HomeServiceFee float64       `json:"home_service_fee" bson:"home_service_fee" validate:"gte=0"`
	TotalAmount    float64       `json:"total_amount" bson:"total_amount" validate:"gte=0"`
	Status         string        `json:"status" bson:"status" validate:"required,oneof=upcoming completed cancelled"`
	PeopleCount    int           `json:"people_count" bson:"people_count" validate:"required,min=1,max=20"`
	Rescheduled    bool          `json:"rescheduled" bson:"rescheduled"`
	IsHomeService  bool          `json:"is_home_service" bson:"is_home_service"`
	GroupDetails   []GroupMember `json:"group_details" bson:"group_details" validate:"required,min=1,max=20,dive"`
	ReviewID       string        `json:"review_id,omitempty" bson:"review_id,omitempty" validate:"omitempty,uuid4"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the finalized selection a customer submits for
// composition, together with the opaque payment confirmation signal.
type BookingRequest struct {
	CustomerID       string        `json:"customer_id" validate:"required,mongodb"`
	ScheduledAt      time.Time     `json:"scheduled_at" validate:"required"`
	GroupMembers     []GroupMember `json:"group_members" validate:"required,min=1,max=20,dive"`
	HomeService      bool          `json:"home_service"`
	PaymentConfirmed bool          `json:"payment_confirmed"`
}

// IsUpcoming reports whether the booking is still ahead of the customer.
func (b *Booking) IsUpcoming() bool {
	return b.Status == StatusUpcoming
}

// IsReviewable reports whether a review may be attached: only completed
// bookings without a prior review qualify.
func (b *Booking) IsReviewable() bool {
	return b.Status == StatusCompleted && b.ReviewID == ""
}

// AmountsConsistent reports whether the stored price components still add
// up to the stored total.
func (b *Booking) AmountsConsistent() bool {
	return b.TotalAmount == b.Subtotal+b.PlatformFee+b.HomeServiceFee
}
