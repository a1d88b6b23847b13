package service

import (
	"context"
	"math"

	"salonhub/internal/loyalty/repository"
	"salonhub/pkg/config"
	apperrors "salonhub/pkg/errors"
	"salonhub/pkg/events"
	"salonhub/pkg/kafka"
	"salonhub/pkg/model"
)

// PointsPerCurrencyUnit is the accrual rate: ten points for every unit
// of a booking's total.
const PointsPerCurrencyUnit = 10

// Tier thresholds. A customer is Platinum above 2000 points, Gold above
// 500, Silver otherwise.
const (
	goldThreshold     = 500
	platinumThreshold = 2000
)

// EventPublisher decouples the service from the concrete Kafka producer.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type LoyaltyService interface {
	Get(ctx context.Context, customerID string) (*model.CustomerLoyalty, error)
	ApplyAccrual(ctx context.Context, customerID string, totalAmount float64) (*model.CustomerLoyalty, error)
}

type loyaltyService struct {
	repo      repository.LoyaltyRepository
	publisher EventPublisher
	cfg       *config.Config
}

func NewLoyaltyService(repo repository.LoyaltyRepository, publisher EventPublisher, cfg *config.Config) LoyaltyService {
	return &loyaltyService{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Earn converts a booking total into points, rounding down.
func Earn(totalAmount float64) int64 {
	if totalAmount <= 0 {
		return 0
	}
	return int64(math.Floor(totalAmount * PointsPerCurrencyUnit))
}

// TierFor maps a point balance to its tier.
func TierFor(points int64) string {
	switch {
	case points > platinumThreshold:
		return model.TierPlatinum
	case points > goldThreshold:
		return model.TierGold
	default:
		return model.TierSilver
	}
}

// Accrue folds one booking total into an existing loyalty state. Points
// only grow and the tier never moves down, whatever the stored tier
// claims.
func Accrue(current *model.CustomerLoyalty, customerID string, totalAmount float64) *model.CustomerLoyalty {
	var points int64
	tier := model.TierSilver
	if current != nil {
		points = current.Points
		tier = current.Tier
	}

	points += Earn(totalAmount)

	newTier := TierFor(points)
	if model.TierRank(newTier) < model.TierRank(tier) {
		newTier = tier
	}

	return &model.CustomerLoyalty{
		CustomerID: customerID,
		Points:     points,
		Tier:       newTier,
	}
}

func (s *loyaltyService) Get(ctx context.Context, customerID string) (*model.CustomerLoyalty, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	loyalty, err := s.repo.Get(ctx, customerID)
	if err != nil {
		s.cfg.Log.Error("Failed to load loyalty state", "customer_id", customerID, "error", err)
		return nil, apperrors.Internal("Failed to load loyalty state", err)
	}
	if loyalty == nil {
		// Everyone starts at Silver with zero points.
		return &model.CustomerLoyalty{
			CustomerID: customerID,
			Points:     0,
			Tier:       model.TierSilver,
		}, nil
	}

	return loyalty, nil
}

// ApplyAccrual credits one booking's worth of points to a customer.
// Events arrive keyed by customer ID, so accruals for one customer are
// processed in order and the read-modify-write below does not race
// with itself.
func (s *loyaltyService) ApplyAccrual(ctx context.Context, customerID string, totalAmount float64) (*model.CustomerLoyalty, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	current, err := s.repo.Get(ctx, customerID)
	if err != nil {
		s.cfg.Log.Error("Failed to load loyalty state", "customer_id", customerID, "error", err)
		return nil, apperrors.Internal("Failed to load loyalty state", err)
	}

	oldTier := model.TierSilver
	if current != nil {
		oldTier = current.Tier
	}

	updated := Accrue(current, customerID, totalAmount)
	if err := s.repo.Upsert(ctx, updated); err != nil {
		s.cfg.Log.Error("Failed to store loyalty state", "customer_id", customerID, "error", err)
		return nil, apperrors.Internal("Failed to store loyalty state", err)
	}

	if model.TierRank(updated.Tier) > model.TierRank(oldTier) {
		s.publishTierUpgraded(ctx, updated, oldTier)
	}

	s.cfg.Log.Info("Loyalty accrued",
		"customer_id", customerID,
		"earned", Earn(totalAmount),
		"points", updated.Points,
		"tier", updated.Tier,
	)
	return updated, nil
}

func (s *loyaltyService) publishTierUpgraded(ctx context.Context, loyalty *model.CustomerLoyalty, oldTier string) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewEventMessage(loyalty.CustomerID, events.TypeLoyaltyTierUpgraded, "loyalty", events.LoyaltyTierUpgraded{
		CustomerID: loyalty.CustomerID,
		OldTier:    oldTier,
		NewTier:    loyalty.Tier,
		Points:     loyalty.Points,
	})
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish loyalty.tier_upgraded event",
			"customer_id", loyalty.CustomerID,
			"error", err,
		)
	}
}
