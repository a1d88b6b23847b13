package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "salonhub/internal/bookings/errors"
	reviewserrors "salonhub/internal/reviews/errors"
	"salonhub/internal/reviews/repository"
	"salonhub/internal/reviews/validator"
	"salonhub/pkg/config"
	apperrors "salonhub/pkg/errors"
	"salonhub/pkg/model"
	"salonhub/pkg/sanitizer"
)

// BookingStore is the booking-side surface the review flow needs. It is
// satisfied by the bookings repository so the review and the back-pointer
// land in one transaction.
type BookingStore interface {
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	SetReviewID(ctx context.Context, id string, reviewID string) error
}

type ReviewService interface {
	Attach(ctx context.Context, bookingID, customerID string, req *model.ReviewRequest) (*model.Review, error)
	GetByID(ctx context.Context, id string) (*model.Review, error)
	GetByBooking(ctx context.Context, bookingID string) (*model.Review, error)
	GetByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Review, int64, error)
}

type reviewService struct {
	repo      repository.ReviewRepository
	bookings  BookingStore
	validator *validator.ReviewValidator
	cfg       *config.Config
}

func NewReviewService(
	repo repository.ReviewRepository,
	bookings BookingStore,
	reviewValidator *validator.ReviewValidator,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		repo:      repo,
		bookings:  bookings,
		validator: reviewValidator,
		cfg:       cfg,
	}
}

// Attach stores a review for a completed booking and links it from the
// booking, both inside one transaction. A booking carries at most one
// review for its whole life.
func (s *reviewService) Attach(ctx context.Context, bookingID, customerID string, req *model.ReviewRequest) (*model.Review, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Review validation failed", "booking_id", bookingID, "error", err)
		return nil, apperrors.Validation("Invalid review", map[string]any{"error": err.Error()})
	}

	var review *model.Review
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.bookings.FindByID(sessCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", bookingID)
			}
			if errors.Is(err, bookingserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid booking ID format")
			}
			return apperrors.Internal("Failed to load booking", err)
		}

		if customerID != "" && booking.CustomerID != customerID {
			return apperrors.Forbidden("Only the booking's customer can review it")
		}
		if booking.Status != model.StatusCompleted {
			return apperrors.Conflict(fmt.Sprintf("Only completed bookings can be reviewed, status is %s", booking.Status))
		}
		if booking.ReviewID != "" {
			return apperrors.Conflict("Booking already has a review")
		}

		review = &model.Review{
			ID:         uuid.NewString(),
			BookingID:  booking.ID,
			ProviderID: booking.ProviderID,
			CustomerID: booking.CustomerID,
			Rating:     req.Rating,
			Comment:    sanitizer.NormalizeComment(req.Comment),
		}

		if err := s.repo.Create(sessCtx, review); err != nil {
			if errors.Is(err, reviewserrors.ErrAlreadyReviewed) {
				return apperrors.Conflict("Booking already has a review")
			}
			return apperrors.Internal("Failed to create review", err)
		}

		if err := s.bookings.SetReviewID(sessCtx, booking.ID, review.ID); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.Conflict("Booking was reviewed concurrently")
			}
			return apperrors.Internal("Failed to link review to booking", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to attach review", "booking_id", bookingID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Review attached",
		"review_id", review.ID,
		"booking_id", bookingID,
		"rating", review.Rating,
	)
	return review, nil
}

func (s *reviewService) GetByID(ctx context.Context, id string) (*model.Review, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Review ID cannot be empty")
	}

	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Review", id)
		}
		if errors.Is(err, reviewserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid review ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve review", err)
	}

	return review, nil
}

func (s *reviewService) GetByBooking(ctx context.Context, bookingID string) (*model.Review, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	review, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Review")
		}
		return nil, apperrors.Internal("Failed to retrieve review", err)
	}

	return review, nil
}

func (s *reviewService) GetByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Review, int64, error) {
	if providerID == "" {
		return nil, 0, apperrors.InvalidInput("Provider ID cannot be empty")
	}

	var total int64
	var reviews []*model.Review
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.CountByProvider(ctx, providerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reviews", "error", errCount)
			errCount = apperrors.Internal("Failed to count reviews", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reviews, errFind = s.repo.FindByProvider(ctx, providerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reviews", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reviews", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reviews, total, nil
}
