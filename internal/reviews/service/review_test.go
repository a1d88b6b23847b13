package service

import (
	"context"
	"testing"
	"time"

	reviewserrors "salonhub/internal/reviews/errors"
	"salonhub/internal/reviews/validator"
	"salonhub/pkg/config"
	mongotx "salonhub/pkg/db/mongo"
	apperrors "salonhub/pkg/errors"
	"salonhub/pkg/logger"
	"salonhub/pkg/model"
)

const (
	testBookingID  = "8f14e45f-ceea-467f-a7e1-9a2a73d8a2f1"
	testCustomerID = "507f1f77bcf86cd799439011"
	testProviderID = "507f1f77bcf86cd799439010"
)

type mockReviewRepository struct {
	createFunc        func(ctx context.Context, review *model.Review) error
	findByIDFunc      func(ctx context.Context, id string) (*model.Review, error)
	findByBookingFunc func(ctx context.Context, bookingID string) (*model.Review, error)
}

func (m *mockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, review)
	}
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reviewserrors.ErrNotFound
}

func (m *mockReviewRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.Review, error) {
	if m.findByBookingFunc != nil {
		return m.findByBookingFunc(ctx, bookingID)
	}
	return nil, reviewserrors.ErrNotFound
}

func (m *mockReviewRepository) FindByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Review, error) {
	return []*model.Review{}, nil
}

func (m *mockReviewRepository) CountByProvider(ctx context.Context, providerID string) (int64, error) {
	return 0, nil
}

func (m *mockReviewRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockBookingStore struct {
	booking       *model.Booking
	setReviewFunc func(ctx context.Context, id, reviewID string) error
}

func (m *mockBookingStore) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.booking == nil {
		return nil, reviewserrors.ErrNotFound
	}
	b := *m.booking
	return &b, nil
}

func (m *mockBookingStore) SetReviewID(ctx context.Context, id string, reviewID string) error {
	if m.setReviewFunc != nil {
		return m.setReviewFunc(ctx, id, reviewID)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.FormatText,
			AddSource: false,
			Service:   "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func completedBooking() *model.Booking {
	return &model.Booking{
		ID:         testBookingID,
		CustomerID: testCustomerID,
		ProviderID: testProviderID,
		Status:     model.StatusCompleted,
	}
}

func newTestService(repo *mockReviewRepository, bookings *mockBookingStore) ReviewService {
	cfg := testConfig()
	return NewReviewService(repo, bookings, validator.NewReviewValidator(cfg.Log), cfg)
}

func TestAttach_LinksReviewToBooking(t *testing.T) {
	var created *model.Review
	var linkedReviewID string

	repo := &mockReviewRepository{
		createFunc: func(ctx context.Context, review *model.Review) error {
			created = review
			return nil
		},
	}
	bookings := &mockBookingStore{
		booking: completedBooking(),
		setReviewFunc: func(ctx context.Context, id, reviewID string) error {
			linkedReviewID = reviewID
			return nil
		},
	}
	svc := newTestService(repo, bookings)

	review, err := svc.Attach(context.Background(), testBookingID, testCustomerID, &model.ReviewRequest{
		Rating:  5,
		Comment: "Lovely experience",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if review.ID == "" {
		t.Error("expected a generated review ID")
	}
	if review.BookingID != testBookingID {
		t.Errorf("expected booking id %s, got %s", testBookingID, review.BookingID)
	}
	if review.ProviderID != testProviderID {
		t.Errorf("expected provider id %s, got %s", testProviderID, review.ProviderID)
	}
	if created == nil {
		t.Fatal("review was not persisted")
	}
	if linkedReviewID != review.ID {
		t.Errorf("booking points at %s, review is %s", linkedReviewID, review.ID)
	}
}

func TestAttach_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		booking  *model.Booking
		customer string
		req      model.ReviewRequest
		wantCode string
	}{
		{
			name: "upcoming booking cannot be reviewed",
			booking: func() *model.Booking {
				b := completedBooking()
				b.Status = model.StatusUpcoming
				return b
			}(),
			customer: testCustomerID,
			req:      model.ReviewRequest{Rating: 4},
			wantCode: apperrors.CodeConflict,
		},
		{
			name: "cancelled booking cannot be reviewed",
			booking: func() *model.Booking {
				b := completedBooking()
				b.Status = model.StatusCancelled
				return b
			}(),
			customer: testCustomerID,
			req:      model.ReviewRequest{Rating: 4},
			wantCode: apperrors.CodeConflict,
		},
		{
			name: "second review rejected",
			booking: func() *model.Booking {
				b := completedBooking()
				b.ReviewID = "5fd962a2-6a30-4efa-b018-8a14c25bc865"
				return b
			}(),
			customer: testCustomerID,
			req:      model.ReviewRequest{Rating: 4},
			wantCode: apperrors.CodeConflict,
		},
		{
			name:     "someone else's booking",
			booking:  completedBooking(),
			customer: "507f1f77bcf86cd799439099",
			req:      model.ReviewRequest{Rating: 4},
			wantCode: apperrors.CodeForbidden,
		},
		{
			name:     "rating below range",
			booking:  completedBooking(),
			customer: testCustomerID,
			req:      model.ReviewRequest{Rating: 0},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "rating above range",
			booking:  completedBooking(),
			customer: testCustomerID,
			req:      model.ReviewRequest{Rating: 6},
			wantCode: apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockReviewRepository{}, &mockBookingStore{booking: tt.booking})

			_, err := svc.Attach(context.Background(), testBookingID, tt.customer, &tt.req)
			appErr := apperrors.AsAppError(err)
			if appErr.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestAttach_DuplicateRaceSurfacesConflict(t *testing.T) {
	repo := &mockReviewRepository{
		createFunc: func(ctx context.Context, review *model.Review) error {
			return reviewserrors.ErrAlreadyReviewed
		},
	}
	svc := newTestService(repo, &mockBookingStore{booking: completedBooking()})

	_, err := svc.Attach(context.Background(), testBookingID, testCustomerID, &model.ReviewRequest{Rating: 3})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAttach_NormalizesComment(t *testing.T) {
	var created *model.Review
	repo := &mockReviewRepository{
		createFunc: func(ctx context.Context, review *model.Review) error {
			created = review
			return nil
		},
	}
	svc := newTestService(repo, &mockBookingStore{booking: completedBooking()})

	_, err := svc.Attach(context.Background(), testBookingID, testCustomerID, &model.ReviewRequest{
		Rating:  5,
		Comment: "  Great\x00 cut  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Comment != "Great cut" {
		t.Errorf("expected normalized comment, got %q", created.Comment)
	}
}
