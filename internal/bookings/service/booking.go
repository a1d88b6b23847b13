package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingserrors "salonhub/internal/bookings/errors"
	"salonhub/internal/bookings/pricing"
	"salonhub/internal/bookings/repository"
	"salonhub/internal/bookings/validator"
	"salonhub/pkg/config"
	apperrors "salonhub/pkg/errors"
	"salonhub/pkg/events"
	"salonhub/pkg/kafka"
	"salonhub/pkg/model"
	"salonhub/pkg/sanitizer"
)

// ServiceCatalog is the slice of the catalog the booking flow needs: a
// point-in-time read of the services a group selected.
type ServiceCatalog interface {
	FindByIDs(ctx context.Context, ids []string) ([]*model.Service, error)
}

// EventPublisher decouples the service from the concrete Kafka producer.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	Quote(ctx context.Context, req *model.BookingRequest) (pricing.Breakdown, error)
	Compose(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Reschedule(ctx context.Context, id, customerID string, newTime time.Time) (*model.Booking, error)
	TransitionStatus(ctx context.Context, id, newStatus string) error
	PlatformFee(ctx context.Context) (model.PlatformFeeConfig, error)
	SetPlatformFee(ctx context.Context, fee *model.PlatformFeeConfig) error
}

type bookingService struct {
	repo      repository.BookingRepository
	feeRepo   repository.PlatformFeeRepository
	catalog   ServiceCatalog
	validator *validator.BookingValidator
	publisher EventPublisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	feeRepo repository.PlatformFeeRepository,
	catalog ServiceCatalog,
	bookingValidator *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		feeRepo:   feeRepo,
		catalog:   catalog,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Quote prices a selection without persisting anything. The breakdown a
// customer sees here is recomputed from the same snapshot logic at
// composition time, so a confirmed amount never drifts.
func (s *bookingService) Quote(ctx context.Context, req *model.BookingRequest) (pricing.Breakdown, error) {
	s.sanitizeRequest(req)
	if err := s.validateRequest(req); err != nil {
		return pricing.Breakdown{}, err
	}

	snapshot, _, err := s.catalogSnapshot(ctx, req.GroupMembers)
	if err != nil {
		return pricing.Breakdown{}, err
	}

	fee, err := s.effectiveFee(ctx)
	if err != nil {
		return pricing.Breakdown{}, err
	}

	breakdown, err := pricing.Quote(req.GroupMembers, snapshot, fee, req.HomeService)
	if err != nil {
		return pricing.Breakdown{}, apperrors.Internal("Failed to price selection", err)
	}

	return breakdown, nil
}

// Compose turns a confirmed selection into a stored booking: snapshot
// the catalog, price it, denormalize the amounts, persist, and announce
// the booking for loyalty accrual.
func (s *bookingService) Compose(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitizeRequest(req)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	snapshot, providerID, err := s.catalogSnapshot(ctx, req.GroupMembers)
	if err != nil {
		return nil, err
	}

	fee, err := s.effectiveFee(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := pricing.Quote(req.GroupMembers, snapshot, fee, req.HomeService)
	if err != nil {
		return nil, apperrors.Internal("Failed to price selection", err)
	}

	booking := &model.Booking{
		ID:             uuid.NewString(),
		ServiceIDs:     pricing.DistinctServiceIDs(req.GroupMembers),
		CustomerID:     req.CustomerID,
		ProviderID:     providerID,
		ScheduledAt:    req.ScheduledAt,
		Subtotal:       breakdown.Subtotal,
		PlatformFee:    breakdown.PlatformFee,
		HomeServiceFee: breakdown.HomeServiceFee,
		TotalAmount:    breakdown.Total,
		Status:         model.StatusUpcoming,
		PeopleCount:    len(req.GroupMembers),
		IsHomeService:  req.HomeService && pricing.SupportsHomeService(req.GroupMembers, snapshot),
		GroupDetails:   req.GroupMembers,
	}

	if err := s.validator.ValidateBooking(booking); err != nil {
		s.cfg.Log.Warn("Composed booking failed validation", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.publishBookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking composed successfully",
		"id", booking.ID,
		"customer_id", booking.CustomerID,
		"provider_id", booking.ProviderID,
		"people_count", booking.PeopleCount,
		"total_amount", booking.TotalAmount,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if customerID == "" {
		return nil, 0, apperrors.InvalidInput("Customer ID cannot be empty")
	}
	return s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountByCustomer(ctx, customerID) },
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByCustomer(ctx, customerID, limit, offset)
		},
	)
}

func (s *bookingService) GetByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if providerID == "" {
		return nil, 0, apperrors.InvalidInput("Provider ID cannot be empty")
	}
	return s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountByProvider(ctx, providerID) },
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByProvider(ctx, providerID, limit, offset)
		},
	)
}

func (s *bookingService) list(
	ctx context.Context,
	count func(ctx context.Context) (int64, error),
	find func(ctx context.Context) ([]*model.Booking, error),
) ([]*model.Booking, int64, error) {
	var total int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = find(ctx)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, total, nil
}

// Reschedule moves an upcoming booking to a new time on the same
// calendar day. It is allowed at most once, only by the booking's
// customer, and only while the start is still further away than the
// configured notice window.
func (s *bookingService) Reschedule(ctx context.Context, id, customerID string, newTime time.Time) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if customerID != "" && booking.CustomerID != customerID {
		return nil, apperrors.Forbidden("Only the booking's customer can reschedule it")
	}

	now := s.now()
	if err := s.checkReschedulable(booking, now); err != nil {
		return nil, err
	}

	newStart, err := combineOnOriginalDay(booking.ScheduledAt, newTime)
	if err != nil {
		return nil, apperrors.InvalidReschedule(err.Error())
	}
	if !newStart.After(now) {
		return nil, apperrors.InvalidReschedule("New time has already passed")
	}

	if err := s.repo.UpdateSchedule(ctx, id, newStart); err != nil {
		if errors.Is(err, bookingserrors.ErrAlreadyRescheduled) {
			// Lost the race to a concurrent reschedule of the same booking.
			return nil, apperrors.NotReschedulable("Booking can no longer be rescheduled")
		}
		s.cfg.Log.Error("Failed to reschedule booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to reschedule booking", err)
	}

	booking.ScheduledAt = newStart
	booking.Rescheduled = true

	s.cfg.Log.Info("Booking rescheduled",
		"id", id,
		"customer_id", booking.CustomerID,
		"scheduled_at", newStart,
	)
	return booking, nil
}

// CanReschedule reports whether a booking starting at scheduledAt may
// still be moved at instant now, given the required notice. The window
// closes at exactly scheduledAt minus notice.
func CanReschedule(scheduledAt, now time.Time, notice time.Duration) bool {
	return now.Before(scheduledAt.Add(-notice))
}

func (s *bookingService) checkReschedulable(booking *model.Booking, now time.Time) error {
	if !booking.IsUpcoming() {
		return apperrors.NotReschedulable(fmt.Sprintf("Only upcoming bookings can be rescheduled, status is %s", booking.Status))
	}
	if booking.Rescheduled {
		return apperrors.NotReschedulable("Booking has already been rescheduled once")
	}
	if !CanReschedule(booking.ScheduledAt, now, s.cfg.RescheduleNotice) {
		return apperrors.NotReschedulable(fmt.Sprintf("Rescheduling closes %s before the start time", s.cfg.RescheduleNotice))
	}
	return nil
}

// combineOnOriginalDay keeps the original calendar day and takes only
// the hour and minute from the requested time. A request landing on a
// different day is rejected rather than silently folded.
func combineOnOriginalDay(original, requested time.Time) (time.Time, error) {
	requested = requested.In(original.Location())

	oy, om, od := original.Date()
	ry, rm, rd := requested.Date()
	if oy != ry || om != rm || od != rd {
		return time.Time{}, bookingserrors.ErrCrossDayReschedule
	}

	return time.Date(oy, om, od, requested.Hour(), requested.Minute(), 0, 0, original.Location()), nil
}

// TransitionStatus applies one of the two legal transitions out of
// upcoming and announces the change.
func (s *bookingService) TransitionStatus(ctx context.Context, id, newStatus string) error {
	if newStatus != model.StatusCompleted && newStatus != model.StatusCancelled {
		return apperrors.InvalidInput(fmt.Sprintf("Cannot transition a booking to status %q", newStatus))
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !booking.IsUpcoming() {
		return apperrors.Conflict(fmt.Sprintf("Booking is %s and cannot change status", booking.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, model.StatusUpcoming, newStatus); err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidTransition) {
			return apperrors.Conflict("Booking status changed concurrently")
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return apperrors.Internal("Failed to update booking status", err)
	}

	s.publishStatusChanged(ctx, booking, newStatus)

	s.cfg.Log.Info("Booking status updated", "id", id, "status", newStatus)
	return nil
}

func (s *bookingService) PlatformFee(ctx context.Context) (model.PlatformFeeConfig, error) {
	return s.effectiveFee(ctx)
}

func (s *bookingService) SetPlatformFee(ctx context.Context, fee *model.PlatformFeeConfig) error {
	switch fee.Mode {
	case model.FeeModeNone, model.FeeModePercentage, model.FeeModeFixed:
	default:
		return apperrors.InvalidInput(fmt.Sprintf("Unknown platform fee mode %q", fee.Mode))
	}
	if fee.Value < 0 {
		return apperrors.InvalidInput("Platform fee value cannot be negative")
	}
	if fee.Mode == model.FeeModePercentage && fee.Value > 100 {
		return apperrors.InvalidInput("Percentage platform fee cannot exceed 100")
	}

	if err := s.feeRepo.Put(ctx, fee); err != nil {
		s.cfg.Log.Error("Failed to store platform fee config", "error", err)
		return apperrors.Internal("Failed to store platform fee config", err)
	}

	s.cfg.Log.Info("Platform fee updated", "mode", fee.Mode, "value", fee.Value)
	return nil
}

// --- Helpers ---

func (s *bookingService) sanitizeRequest(req *model.BookingRequest) {
	for i := range req.GroupMembers {
		req.GroupMembers[i].Label = sanitizer.NormalizeMemberLabel(req.GroupMembers[i].Label)
	}
}

func (s *bookingService) validateRequest(req *model.BookingRequest) error {
	if err := s.validator.ValidateRequest(req, s.now()); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}
	return nil
}

// catalogSnapshot loads every distinct selected service and verifies
// the whole selection belongs to one provider.
func (s *bookingService) catalogSnapshot(ctx context.Context, members []model.GroupMember) (map[string]*model.Service, string, error) {
	ids := pricing.DistinctServiceIDs(members)

	services, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to load catalog snapshot", "error", err)
		return nil, "", apperrors.Internal("Failed to load selected services", err)
	}

	snapshot := make(map[string]*model.Service, len(services))
	for _, svc := range services {
		snapshot[svc.ID] = svc
	}
	for _, id := range ids {
		if _, ok := snapshot[id]; !ok {
			return nil, "", apperrors.NotFoundWithID("Service", id)
		}
	}

	providerID := services[0].ProviderID
	for _, svc := range services {
		if svc.ProviderID != providerID {
			return nil, "", apperrors.InvalidInput("All selected services must belong to the same provider")
		}
	}

	return snapshot, providerID, nil
}

// effectiveFee returns the stored operator fee, or the environment
// default when nothing has been configured yet.
func (s *bookingService) effectiveFee(ctx context.Context) (model.PlatformFeeConfig, error) {
	stored, err := s.feeRepo.Get(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load platform fee config", "error", err)
		return model.PlatformFeeConfig{}, apperrors.Internal("Failed to load platform fee config", err)
	}
	if stored != nil {
		return *stored, nil
	}

	return model.PlatformFeeConfig{
		Mode:  s.cfg.DefaultPlatformFeeMode,
		Value: s.cfg.DefaultPlatformFeeValue,
	}, nil
}

// Event publishing is best-effort: the booking is already durable and
// the producer falls back to its DLQ on broker trouble.
func (s *bookingService) publishBookingCreated(ctx context.Context, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewEventMessage(booking.CustomerID, events.TypeBookingCreated, "bookings", events.BookingCreated{
		BookingID:   booking.ID,
		CustomerID:  booking.CustomerID,
		ProviderID:  booking.ProviderID,
		TotalAmount: booking.TotalAmount,
		PeopleCount: booking.PeopleCount,
		ScheduledAt: booking.ScheduledAt,
	})
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking.created event",
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) publishStatusChanged(ctx context.Context, booking *model.Booking, newStatus string) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewEventMessage(booking.CustomerID, events.TypeBookingStatusChanged, "bookings", events.BookingStatusChanged{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		ProviderID: booking.ProviderID,
		OldStatus:  booking.Status,
		NewStatus:  newStatus,
	})
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking.status_changed event",
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
