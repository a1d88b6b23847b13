package model

import "time"

// Service is a catalog entry owned by a provider. Price changes never
// reach existing bookings: amounts are denormalized onto the booking at
// composition time.
type Service struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID     string    `json:"provider_id" bson:"provider_id" validate:"required,mongodb"`
	Name           string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	Price          float64   `json:"price" bson:"price" validate:"gte=0"`
	DurationMin    int       `json:"duration_min" bson:"duration_min" validate:"required,min=5,max=480"`
	Category       string    `json:"category" bson:"category" validate:"required,min=2,max=50"`
	IsInstant      bool      `json:"is_instant" bson:"is_instant"`
	IsHomeService  bool      `json:"is_home_service" bson:"is_home_service"`
	HomeServiceFee float64   `json:"home_service_fee" bson:"home_service_fee" validate:"gte=0"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ServiceUpdate struct {
	Name           string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description    *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Price          *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	DurationMin    *int     `json:"duration_min,omitempty" validate:"omitempty,min=5,max=480"`
	Category       string   `json:"category,omitempty" validate:"omitempty,min=2,max=50"`
	IsInstant      *bool    `json:"is_instant,omitempty"`
	IsHomeService  *bool    `json:"is_home_service,omitempty"`
	HomeServiceFee *float64 `json:"home_service_fee,omitempty" validate:"omitempty,gte=0"`
}
