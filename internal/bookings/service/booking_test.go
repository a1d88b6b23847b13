package service

import (
	"context"
	"testing"
	"time"

	bookingsvalidator "salonhub/internal/bookings/validator"
	"salonhub/pkg/config"
	apperrors "salonhub/pkg/errors"
	"salonhub/pkg/events"
	"salonhub/pkg/kafka"
	"salonhub/pkg/logger"
	"salonhub/pkg/model"

	mongotx "salonhub/pkg/db/mongo"
)

// Mock repository for testing
type mockBookingRepository struct {
	createFunc         func(ctx context.Context, booking *model.Booking) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Booking, error)
	updateScheduleFunc func(ctx context.Context, id string, scheduledAt time.Time) error
	updateStatusFunc   func(ctx context.Context, id string, from, to string) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByProvider(ctx context.Context, providerID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) UpdateSchedule(ctx context.Context, id string, scheduledAt time.Time) error {
	if m.updateScheduleFunc != nil {
		return m.updateScheduleFunc(ctx, id, scheduledAt)
	}
	return nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, to)
	}
	return nil
}

func (m *mockBookingRepository) SetReviewID(ctx context.Context, id string, reviewID string) error {
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockFeeRepository struct {
	getFunc func(ctx context.Context) (*model.PlatformFeeConfig, error)
	putFunc func(ctx context.Context, fee *model.PlatformFeeConfig) error
}

func (m *mockFeeRepository) Get(ctx context.Context) (*model.PlatformFeeConfig, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx)
	}
	return nil, nil
}

func (m *mockFeeRepository) Put(ctx context.Context, fee *model.PlatformFeeConfig) error {
	if m.putFunc != nil {
		return m.putFunc(ctx, fee)
	}
	return nil
}

type mockCatalog struct {
	services map[string]*model.Service
}

func (m *mockCatalog) FindByIDs(ctx context.Context, ids []string) ([]*model.Service, error) {
	var out []*model.Service
	for _, id := range ids {
		if svc, ok := m.services[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

type mockPublisher struct {
	published []kafka.Message
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, msg)
	return nil
}

const (
	testCustomerID = "507f1f77bcf86cd799439011"
	testProviderID = "507f1f77bcf86cd799439010"
	svcHaircut     = "507f1f77bcf86cd799439021"
	svcColoring    = "507f1f77bcf86cd799439022"
	svcSpa         = "507f1f77bcf86cd799439023"
)

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.FormatText,
			AddSource: false,
			Service:   "test",
		}),
		ReadTimeout:             5 * time.Second,
		WriteTimeout:            5 * time.Second,
		RescheduleNotice:        2 * time.Hour,
		DefaultPlatformFeeMode:  model.FeeModeNone,
		DefaultPlatformFeeValue: 0,
	}
}

func testCatalogServices() map[string]*model.Service {
	return map[string]*model.Service{
		svcHaircut: {
			ID:             svcHaircut,
			ProviderID:     testProviderID,
			Price:          100,
			IsHomeService:  true,
			HomeServiceFee: 20,
		},
		svcColoring: {
			ID:             svcColoring,
			ProviderID:     testProviderID,
			Price:          250,
			IsHomeService:  true,
			HomeServiceFee: 50,
		},
		svcSpa: {
			ID:             svcSpa,
			ProviderID:     testProviderID,
			Price:          400,
			IsHomeService:  false,
			HomeServiceFee: 0,
		},
	}
}

func newTestService(repo *mockBookingRepository, feeRepo *mockFeeRepository, publisher *mockPublisher, now time.Time) *bookingService {
	cfg := testConfig()
	return &bookingService{
		repo:      repo,
		feeRepo:   feeRepo,
		catalog:   &mockCatalog{services: testCatalogServices()},
		validator: bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return now },
	}
}

func validTestRequest(now time.Time) *model.BookingRequest {
	return &model.BookingRequest{
		CustomerID:  testCustomerID,
		ScheduledAt: now.Add(48 * time.Hour),
		GroupMembers: []model.GroupMember{
			{Label: "Me", ServiceIDs: []string{svcHaircut, svcColoring}},
			{Label: "Sister", ServiceIDs: []string{svcHaircut}},
		},
		PaymentConfirmed: true,
	}
}

func TestCompose_PricesAndPersists(t *testing.T) {
	now := time.Now()
	var stored *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			stored = booking
			return nil
		},
	}
	feeRepo := &mockFeeRepository{
		getFunc: func(ctx context.Context) (*model.PlatformFeeConfig, error) {
			return &model.PlatformFeeConfig{Mode: model.FeeModePercentage, Value: 10}, nil
		},
	}
	publisher := &mockPublisher{}
	svc := newTestService(repo, feeRepo, publisher, now)

	booking, err := svc.Compose(context.Background(), validTestRequest(now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// haircut twice + coloring once
	if booking.Subtotal != 450 {
		t.Errorf("expected subtotal 450, got %f", booking.Subtotal)
	}
	if booking.PlatformFee != 45 {
		t.Errorf("expected platform fee 45, got %f", booking.PlatformFee)
	}
	if booking.HomeServiceFee != 0 {
		t.Errorf("expected no home fee, got %f", booking.HomeServiceFee)
	}
	if booking.TotalAmount != 495 {
		t.Errorf("expected total 495, got %f", booking.TotalAmount)
	}
	if booking.Status != model.StatusUpcoming {
		t.Errorf("expected status upcoming, got %s", booking.Status)
	}
	if booking.PeopleCount != 2 {
		t.Errorf("expected people count 2, got %d", booking.PeopleCount)
	}
	if booking.ProviderID != testProviderID {
		t.Errorf("expected provider %s, got %s", testProviderID, booking.ProviderID)
	}
	if len(booking.ServiceIDs) != 2 {
		t.Errorf("expected 2 distinct services, got %v", booking.ServiceIDs)
	}
	if booking.ID == "" {
		t.Error("expected a generated booking ID")
	}
	if stored == nil || stored.ID != booking.ID {
		t.Error("booking was not persisted")
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.published))
	}
	msg := publisher.published[0]
	if msg.EventType() != events.TypeBookingCreated {
		t.Errorf("expected booking.created event, got %s", msg.EventType())
	}
	var payload events.BookingCreated
	if err := msg.DecodeValue(&payload); err != nil {
		t.Fatalf("failed to decode event payload: %v", err)
	}
	if payload.TotalAmount != 495 {
		t.Errorf("event carries total %f, want 495", payload.TotalAmount)
	}
}

func TestCompose_HomeServiceSurcharge(t *testing.T) {
	now := time.Now()
	svc := newTestService(&mockBookingRepository{}, &mockFeeRepository{}, &mockPublisher{}, now)

	req := validTestRequest(now)
	req.HomeService = true

	booking, err := svc.Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 20 + 50 for the first member, 20 for the second
	if booking.HomeServiceFee != 90 {
		t.Errorf("expected home fee 90, got %f", booking.HomeServiceFee)
	}
	if !booking.IsHomeService {
		t.Error("expected booking to be marked as home service")
	}
	if booking.TotalAmount != 540 {
		t.Errorf("expected total 540, got %f", booking.TotalAmount)
	}
}

func TestCompose_HomeServiceDeniedWhenUnsupported(t *testing.T) {
	now := time.Now()
	svc := newTestService(&mockBookingRepository{}, &mockFeeRepository{}, &mockPublisher{}, now)

	req := validTestRequest(now)
	req.HomeService = true
	req.GroupMembers[1].ServiceIDs = []string{svcSpa}

	booking, err := svc.Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.HomeServiceFee != 0 {
		t.Errorf("expected home fee forced to 0, got %f", booking.HomeServiceFee)
	}
	if booking.IsHomeService {
		t.Error("expected booking not to be marked as home service")
	}
}

func TestCompose_UnknownServiceRejected(t *testing.T) {
	now := time.Now()
	svc := newTestService(&mockBookingRepository{}, &mockFeeRepository{}, &mockPublisher{}, now)

	req := validTestRequest(now)
	req.GroupMembers[0].ServiceIDs = []string{"507f1f77bcf86cd799439099"}

	_, err := svc.Compose(context.Background(), req)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCompose_ProviderMismatchRejected(t *testing.T) {
	now := time.Now()
	cfg := testConfig()
	catalog := testCatalogServices()
	catalog[svcSpa].ProviderID = "507f1f77bcf86cd799439099"

	svc := &bookingService{
		repo:      &mockBookingRepository{},
		feeRepo:   &mockFeeRepository{},
		catalog:   &mockCatalog{services: catalog},
		validator: bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher: &mockPublisher{},
		cfg:       cfg,
		now:       func() time.Time { return now },
	}

	req := validTestRequest(now)
	req.GroupMembers[1].ServiceIDs = []string{svcSpa}

	_, err := svc.Compose(context.Background(), req)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected invalid-input error, got %v", err)
	}
}

func TestCompose_PaymentNotConfirmed(t *testing.T) {
	now := time.Now()
	svc := newTestService(&mockBookingRepository{}, &mockFeeRepository{}, &mockPublisher{}, now)

	req := validTestRequest(now)
	req.PaymentConfirmed = false

	_, err := svc.Compose(context.Background(), req)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCompose_SucceedsWhenPublisherFails(t *testing.T) {
	now := time.Now()
	publisher := &mockPublisher{err: context.DeadlineExceeded}
	svc := newTestService(&mockBookingRepository{}, &mockFeeRepository{}, publisher, now)

	if _, err := svc.Compose(context.Background(), validTestRequest(now)); err != nil {
		t.Fatalf("compose must not fail on publish errors, got: %v", err)
	}
}

func TestQuote_UsesDefaultFeeWhenUnconfigured(t *testing.T) {
	now := time.Now()
	svc := newTestService(&mockBookingRepository{}, &mockFeeRepository{}, &mockPublisher{}, now)
	svc.cfg.DefaultPlatformFeeMode = model.FeeModeFixed
	svc.cfg.DefaultPlatformFeeValue = 25

	breakdown, err := svc.Quote(context.Background(), validTestRequest(now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if breakdown.PlatformFee != 50 {
		t.Errorf("expected fixed fee 25 per member, got %f", breakdown.PlatformFee)
	}
	if breakdown.Total != 500 {
		t.Errorf("expected total 500, got %f", breakdown.Total)
	}
}

func upcomingBooking(scheduledAt time.Time) *model.Booking {
	return &model.Booking{
		ID:          "8f14e45f-ceea-467f-a7e1-9a2a73d8a2f1",
		CustomerID:  testCustomerID,
		ProviderID:  testProviderID,
		ScheduledAt: scheduledAt,
		Status:      model.StatusUpcoming,
	}
}

func TestReschedule(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		booking  *model.Booking
		customer string
		newTime  time.Time
		wantCode string
		wantTime time.Time
	}{
		{
			name:     "allowed well before the notice window",
			booking:  upcomingBooking(time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)),
			customer: testCustomerID,
			newTime:  time.Date(2026, time.March, 10, 17, 30, 0, 0, time.UTC),
			wantTime: time.Date(2026, time.March, 10, 17, 30, 0, 0, time.UTC),
		},
		{
			name:     "blocked inside the notice window",
			booking:  upcomingBooking(time.Date(2026, time.March, 10, 10, 30, 0, 0, time.UTC)),
			customer: testCustomerID,
			newTime:  time.Date(2026, time.March, 10, 17, 0, 0, 0, time.UTC),
			wantCode: apperrors.CodeNotReschedulable,
		},
		{
			name:     "blocked exactly at the notice boundary",
			booking:  upcomingBooking(time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC)),
			customer: testCustomerID,
			newTime:  time.Date(2026, time.March, 10, 17, 0, 0, 0, time.UTC),
			wantCode: apperrors.CodeNotReschedulable,
		},
		{
			name: "blocked after a previous reschedule",
			booking: func() *model.Booking {
				b := upcomingBooking(time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC))
				b.Rescheduled = true
				return b
			}(),
			customer: testCustomerID,
			newTime:  time.Date(2026, time.March, 10, 17, 0, 0, 0, time.UTC),
			wantCode: apperrors.CodeNotReschedulable,
		},
		{
			name: "blocked for completed bookings",
			booking: func() *model.Booking {
				b := upcomingBooking(time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC))
				b.Status = model.StatusCompleted
				return b
			}(),
			customer: testCustomerID,
			newTime:  time.Date(2026, time.March, 10, 17, 0, 0, 0, time.UTC),
			wantCode: apperrors.CodeNotReschedulable,
		},
		{
			name:     "blocked across calendar days",
			booking:  upcomingBooking(time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)),
			customer: testCustomerID,
			newTime:  time.Date(2026, time.March, 11, 14, 0, 0, 0, time.UTC),
			wantCode: apperrors.CodeInvalidSchedule,
		},
		{
			name:     "blocked when the new time has passed",
			booking:  upcomingBooking(time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)),
			customer: testCustomerID,
			newTime:  time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC),
			wantCode: apperrors.CodeInvalidSchedule,
		},
		{
			name:     "blocked for a different customer",
			booking:  upcomingBooking(time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)),
			customer: "507f1f77bcf86cd799439099",
			newTime:  time.Date(2026, time.March, 10, 17, 0, 0, 0, time.UTC),
			wantCode: apperrors.CodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updatedTo time.Time
			repo := &mockBookingRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					b := *tt.booking
					return &b, nil
				},
				updateScheduleFunc: func(ctx context.Context, id string, scheduledAt time.Time) error {
					updatedTo = scheduledAt
					return nil
				},
			}
			svc := newTestService(repo, &mockFeeRepository{}, &mockPublisher{}, now)

			booking, err := svc.Reschedule(context.Background(), tt.booking.ID, tt.customer, tt.newTime)

			if tt.wantCode != "" {
				appErr := apperrors.AsAppError(err)
				if appErr.Code != tt.wantCode {
					t.Fatalf("expected error code %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !updatedTo.Equal(tt.wantTime) {
				t.Errorf("expected schedule update to %s, got %s", tt.wantTime, updatedTo)
			}
			if !booking.Rescheduled {
				t.Error("expected booking marked as rescheduled")
			}
		})
	}
}

func TestReschedule_DropsSecondsFromRequestedTime(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	original := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)

	var updatedTo time.Time
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return upcomingBooking(original), nil
		},
		updateScheduleFunc: func(ctx context.Context, id string, scheduledAt time.Time) error {
			updatedTo = scheduledAt
			return nil
		},
	}
	svc := newTestService(repo, &mockFeeRepository{}, &mockPublisher{}, now)

	requested := time.Date(2026, time.March, 10, 16, 45, 33, 912, time.UTC)
	if _, err := svc.Reschedule(context.Background(), "8f14e45f-ceea-467f-a7e1-9a2a73d8a2f1", testCustomerID, requested); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, time.March, 10, 16, 45, 0, 0, time.UTC)
	if !updatedTo.Equal(want) {
		t.Errorf("expected %s, got %s", want, updatedTo)
	}
}

func TestTransitionStatus(t *testing.T) {
	now := time.Now()

	t.Run("upcoming to completed publishes event", func(t *testing.T) {
		repo := &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return upcomingBooking(now.Add(time.Hour)), nil
			},
		}
		publisher := &mockPublisher{}
		svc := newTestService(repo, &mockFeeRepository{}, publisher, now)

		if err := svc.TransitionStatus(context.Background(), "8f14e45f-ceea-467f-a7e1-9a2a73d8a2f1", model.StatusCompleted); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(publisher.published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(publisher.published))
		}
		if publisher.published[0].EventType() != events.TypeBookingStatusChanged {
			t.Errorf("unexpected event type %s", publisher.published[0].EventType())
		}
	})

	t.Run("completed booking cannot change status", func(t *testing.T) {
		repo := &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				b := upcomingBooking(now.Add(time.Hour))
				b.Status = model.StatusCompleted
				return b, nil
			},
		}
		svc := newTestService(repo, &mockFeeRepository{}, &mockPublisher{}, now)

		err := svc.TransitionStatus(context.Background(), "8f14e45f-ceea-467f-a7e1-9a2a73d8a2f1", model.StatusCancelled)
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeConflict {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("target status must be terminal", func(t *testing.T) {
		svc := newTestService(&mockBookingRepository{}, &mockFeeRepository{}, &mockPublisher{}, now)

		err := svc.TransitionStatus(context.Background(), "8f14e45f-ceea-467f-a7e1-9a2a73d8a2f1", model.StatusUpcoming)
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeInvalidInput {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})
}

func TestSetPlatformFee(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		fee     model.PlatformFeeConfig
		wantErr bool
	}{
		{name: "valid percentage", fee: model.PlatformFeeConfig{Mode: model.FeeModePercentage, Value: 12.5}},
		{name: "valid fixed", fee: model.PlatformFeeConfig{Mode: model.FeeModeFixed, Value: 30}},
		{name: "valid none", fee: model.PlatformFeeConfig{Mode: model.FeeModeNone}},
		{name: "unknown mode", fee: model.PlatformFeeConfig{Mode: "tiered", Value: 5}, wantErr: true},
		{name: "negative value", fee: model.PlatformFeeConfig{Mode: model.FeeModeFixed, Value: -1}, wantErr: true},
		{name: "percentage above 100", fee: model.PlatformFeeConfig{Mode: model.FeeModePercentage, Value: 120}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored *model.PlatformFeeConfig
			feeRepo := &mockFeeRepository{
				putFunc: func(ctx context.Context, fee *model.PlatformFeeConfig) error {
					stored = fee
					return nil
				},
			}
			svc := newTestService(&mockBookingRepository{}, feeRepo, &mockPublisher{}, now)

			err := svc.SetPlatformFee(context.Background(), &tt.fee)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if stored != nil {
					t.Error("invalid fee must not be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored == nil || stored.Mode != tt.fee.Mode {
				t.Errorf("fee was not stored: %+v", stored)
			}
		})
	}
}

func TestCanReschedule(t *testing.T) {
	scheduledAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	notice := 2 * time.Hour

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before the window closes", scheduledAt.Add(-5 * time.Hour), true},
		{"one second before the window closes", scheduledAt.Add(-notice).Add(-time.Second), true},
		{"exactly at the window boundary", scheduledAt.Add(-notice), false},
		{"inside the notice period", scheduledAt.Add(-time.Hour), false},
		{"after the start time", scheduledAt.Add(time.Hour), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanReschedule(scheduledAt, tc.now, notice); got != tc.want {
				t.Errorf("CanReschedule(%v, %v, %v) = %v, want %v", scheduledAt, tc.now, notice, got, tc.want)
			}
		})
	}
}
