package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"salonhub/internal/catalog/validator"
	"salonhub/pkg/config"
	apperrors "salonhub/pkg/errors"
	"salonhub/pkg/logger"
	"salonhub/pkg/model"
)

type mockServiceRepository struct {
	createFunc   func(ctx context.Context, svc *model.Service) error
	findByIDFunc func(ctx context.Context, id string) (*model.Service, error)
	updateFunc   func(ctx context.Context, id string, svc *model.Service) error
}

func (m *mockServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, svc)
	}
	return nil
}

func (m *mockServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockServiceRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Service, error) {
	return []*model.Service{}, nil
}

func (m *mockServiceRepository) FindByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Service, error) {
	return []*model.Service{}, nil
}

func (m *mockServiceRepository) CountByProvider(ctx context.Context, providerID string) (int64, error) {
	return 0, nil
}

func (m *mockServiceRepository) FindByCategory(ctx context.Context, category string, limit int, offset int64) ([]*model.Service, error) {
	return []*model.Service{}, nil
}

func (m *mockServiceRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	return 0, nil
}

func (m *mockServiceRepository) Update(ctx context.Context, id string, svc *model.Service) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, svc)
	}
	return nil
}

func (m *mockServiceRepository) Delete(ctx context.Context, id string) error {
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

func newTestService(repo *mockServiceRepository) CatalogService {
	cfg := testConfig()
	return NewCatalogService(repo, validator.NewServiceValidator(cfg.Log), cfg)
}

func validService() *model.Service {
	return &model.Service{
		ProviderID:  "507f1f77bcf86cd799439010",
		Name:        "Classic Haircut",
		Price:       120,
		DurationMin: 45,
		Category:    "Hair",
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(svc *model.Service)
		wantErr string
	}{
		{
			name:   "valid service",
			mutate: func(svc *model.Service) {},
		},
		{
			name: "negative price rejected at write time",
			mutate: func(svc *model.Service) {
				svc.Price = -10
			},
			wantErr: "Price",
		},
		{
			name: "zero price allowed",
			mutate: func(svc *model.Service) {
				svc.Price = 0
			},
		},
		{
			name: "missing name",
			mutate: func(svc *model.Service) {
				svc.Name = ""
			},
			wantErr: "Name",
		},
		{
			name: "missing provider",
			mutate: func(svc *model.Service) {
				svc.ProviderID = ""
			},
			wantErr: "ProviderID",
		},
		{
			name: "duration too short",
			mutate: func(svc *model.Service) {
				svc.DurationMin = 2
			},
			wantErr: "DurationMin",
		},
		{
			name: "home fee without home support",
			mutate: func(svc *model.Service) {
				svc.HomeServiceFee = 25
			},
			wantErr: "home_service_fee",
		},
		{
			name: "negative home fee",
			mutate: func(svc *model.Service) {
				svc.IsHomeService = true
				svc.HomeServiceFee = -5
			},
			wantErr: "HomeServiceFee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored *model.Service
			repo := &mockServiceRepository{
				createFunc: func(ctx context.Context, svc *model.Service) error {
					stored = svc
					return nil
				},
			}
			svc := newTestService(repo)

			entry := validService()
			tt.mutate(entry)

			err := svc.Create(context.Background(), entry)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error mentioning %q, got: %v", tt.wantErr, err)
				}
				if stored != nil {
					t.Error("invalid service must not be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored == nil {
				t.Fatal("service was not persisted")
			}
		})
	}
}

func TestCreate_SanitizesFields(t *testing.T) {
	var stored *model.Service
	repo := &mockServiceRepository{
		createFunc: func(ctx context.Context, svc *model.Service) error {
			stored = svc
			return nil
		},
	}
	svc := newTestService(repo)

	entry := validService()
	entry.Name = "  Classic   Haircut "
	entry.Category = "  HAIR "

	if err := svc.Create(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Name != "Classic Haircut" {
		t.Errorf("expected normalized name, got %q", stored.Name)
	}
	if stored.Category != "hair" {
		t.Errorf("expected lowercased category, got %q", stored.Category)
	}
}

func TestUpdate_MergesAndRevalidates(t *testing.T) {
	existing := validService()
	existing.ID = "507f1f77bcf86cd799439021"

	repo := &mockServiceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Service, error) {
			e := *existing
			return &e, nil
		},
	}
	svc := newTestService(repo)

	newPrice := 150.0
	updated, err := svc.Update(context.Background(), existing.ID, &model.ServiceUpdate{Price: &newPrice})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Price != 150 {
		t.Errorf("expected price 150, got %f", updated.Price)
	}
	if updated.Name != existing.Name {
		t.Errorf("untouched fields must survive the merge, name became %q", updated.Name)
	}
}

func TestUpdate_NegativePriceRejected(t *testing.T) {
	existing := validService()
	existing.ID = "507f1f77bcf86cd799439021"

	repo := &mockServiceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Service, error) {
			e := *existing
			return &e, nil
		},
	}
	svc := newTestService(repo)

	badPrice := -1.0
	_, err := svc.Update(context.Background(), existing.ID, &model.ServiceUpdate{Price: &badPrice})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate_DisablingHomeServiceClearsFee(t *testing.T) {
	existing := validService()
	existing.ID = "507f1f77bcf86cd799439021"
	existing.IsHomeService = true
	existing.HomeServiceFee = 30

	repo := &mockServiceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Service, error) {
			e := *existing
			return &e, nil
		},
	}
	svc := newTestService(repo)

	off := false
	updated, err := svc.Update(context.Background(), existing.ID, &model.ServiceUpdate{IsHomeService: &off})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.HomeServiceFee != 0 {
		t.Errorf("expected home fee cleared, got %f", updated.HomeServiceFee)
	}
}
