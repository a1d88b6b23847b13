package service

import (
	"context"
	"errors"
	"sync"

	catalogerrors "salonhub/internal/catalog/errors"
	"salonhub/internal/catalog/repository"
	"salonhub/internal/catalog/validator"
	"salonhub/pkg/config"
	apperrors "salonhub/pkg/errors"
	"salonhub/pkg/model"
	"salonhub/pkg/sanitizer"
)

type CatalogService interface {
	Create(ctx context.Context, svc *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	GetByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Service, int64, error)
	GetByCategory(ctx context.Context, category string, limit int, offset int64) ([]*model.Service, int64, error)
	Update(ctx context.Context, id string, updates *model.ServiceUpdate) (*model.Service, error)
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	repo      repository.ServiceRepository
	validator *validator.ServiceValidator
	cfg       *config.Config
}

func NewCatalogService(
	repo repository.ServiceRepository,
	serviceValidator *validator.ServiceValidator,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: serviceValidator,
		cfg:       cfg,
	}
}

func (s *catalogService) Create(ctx context.Context, svc *model.Service) error {
	s.sanitize(svc)
	if err := s.validate(svc); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		s.cfg.Log.Error("Failed to create service", "error", err)
		return apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service created",
		"id", svc.ID,
		"provider_id", svc.ProviderID,
		"name", svc.Name,
		"price", svc.Price,
	)
	return nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Service", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid service ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve service", err)
	}

	return svc, nil
}

func (s *catalogService) GetByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Service, int64, error) {
	if providerID == "" {
		return nil, 0, apperrors.InvalidInput("Provider ID cannot be empty")
	}
	return s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountByProvider(ctx, providerID) },
		func(ctx context.Context) ([]*model.Service, error) {
			return s.repo.FindByProvider(ctx, providerID, limit, offset)
		},
	)
}

func (s *catalogService) GetByCategory(ctx context.Context, category string, limit int, offset int64) ([]*model.Service, int64, error) {
	category = sanitizer.NormalizeCategory(category)
	if category == "" {
		return nil, 0, apperrors.InvalidInput("Category cannot be empty")
	}
	return s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountByCategory(ctx, category) },
		func(ctx context.Context) ([]*model.Service, error) {
			return s.repo.FindByCategory(ctx, category, limit, offset)
		},
	)
}

func (s *catalogService) list(
	ctx context.Context,
	count func(ctx context.Context) (int64, error),
	find func(ctx context.Context) ([]*model.Service, error),
) ([]*model.Service, int64, error) {
	var total int64
	var services []*model.Service
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count services", "error", errCount)
			errCount = apperrors.Internal("Failed to count services", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		services, errFind = find(ctx)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list services", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve services", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return services, total, nil
}

// Update merges the patch onto the stored entry and re-validates the
// whole document, so a patch can never leave an invalid service behind.
// Existing bookings keep their denormalized amounts regardless.
func (s *catalogService) Update(ctx context.Context, id string, updates *model.ServiceUpdate) (*model.Service, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Service update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Service", id)
		}
		s.cfg.Log.Error("Failed to update service", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update service", err)
	}

	s.cfg.Log.Info("Service updated", "id", id)
	return merged, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Service ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Service", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid service ID format")
		}
		return apperrors.Internal("Failed to delete service", err)
	}

	s.cfg.Log.Info("Service deleted", "id", id)
	return nil
}

// --- Helpers ---

func (s *catalogService) sanitize(svc *model.Service) {
	svc.Name = sanitizer.NormalizeName(svc.Name)
	svc.Description = sanitizer.TrimAndNormalize(svc.Description)
	svc.Category = sanitizer.NormalizeCategory(svc.Category)
}

func (s *catalogService) validate(svc *model.Service) error {
	if err := s.validator.Validate(svc); err != nil {
		s.cfg.Log.Warn("Service validation failed", "error", err)
		return apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *catalogService) merge(existing *model.Service, updates *model.ServiceUpdate) *model.Service {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.DurationMin != nil {
		merged.DurationMin = *updates.DurationMin
	}
	if updates.Category != "" {
		merged.Category = updates.Category
	}
	if updates.IsInstant != nil {
		merged.IsInstant = *updates.IsInstant
	}
	if updates.IsHomeService != nil {
		merged.IsHomeService = *updates.IsHomeService
		if !merged.IsHomeService {
			merged.HomeServiceFee = 0
		}
	}
	if updates.HomeServiceFee != nil {
		merged.HomeServiceFee = *updates.HomeServiceFee
	}

	return &merged
}
