package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"salonbook/internal/domain"
	"salonbook/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func validationError(msg string) error {
	return NewValidationError(msg)
}

type Service struct {
	repo store.CatalogRepository
}

func NewService(repo store.CatalogRepository) *Service {
	return &Service{repo: repo}
}

type ServiceInput struct {
	Name            string
	PriceCents      int64
	DurationMinutes int
}

func (s *Service) validateServiceInput(in ServiceInput) (ServiceInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return ServiceInput{}, validationError("name is required")
	}
	if in.PriceCents < 0 {
		return ServiceInput{}, validationError("price_cents must not be negative")
	}
	if in.DurationMinutes <= 0 {
		return ServiceInput{}, validationError("duration_minutes must be positive")
	}
	return in, nil
}

func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.repo.ListServices(ctx)
}

func (s *Service) CreateService(ctx context.Context, in ServiceInput) (domain.Service, error) {
	in, err := s.validateServiceInput(in)
	if err != nil {
		return domain.Service{}, err
	}
	return s.repo.CreateService(ctx, domain.Service{
		Name:            in.Name,
		PriceCents:      in.PriceCents,
		DurationMinutes: in.DurationMinutes,
	})
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, in ServiceInput) (domain.Service, error) {
	if id == uuid.Nil {
		return domain.Service{}, validationError("service_id is required")
	}
	in, err := s.validateServiceInput(in)
	if err != nil {
		return domain.Service{}, err
	}
	return s.repo.UpdateService(ctx, domain.Service{
		ID:              id,
		Name:            in.Name,
		PriceCents:      in.PriceCents,
		DurationMinutes: in.DurationMinutes,
	})
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return validationError("service_id is required")
	}
	return s.repo.DeleteService(ctx, id)
}

func (s *Service) ListProfessionals(ctx context.Context) ([]domain.Professional, error) {
	return s.repo.ListProfessionals(ctx)
}

func (s *Service) CreateProfessional(ctx context.Context, name string) (domain.Professional, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Professional{}, validationError("name is required")
	}
	return s.repo.CreateProfessional(ctx, domain.Professional{Name: name})
}

func (s *Service) UpdateProfessional(ctx context.Context, id uuid.UUID, name string) (domain.Professional, error) {
	if id == uuid.Nil {
		return domain.Professional{}, validationError("professional_id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Professional{}, validationError("name is required")
	}
	return s.repo.UpdateProfessional(ctx, domain.Professional{ID: id, Name: name})
}

func (s *Service) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return validationError("professional_id is required")
	}
	return s.repo.DeleteProfessional(ctx, id)
}

func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *Service) CreateClient(ctx context.Context, name string) (domain.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Client{}, validationError("name is required")
	}
	return s.repo.CreateClient(ctx, domain.Client{Name: name})
}

func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, name string) (domain.Client, error) {
	if id == uuid.Nil {
		return domain.Client{}, validationError("client_id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Client{}, validationError("name is required")
	}
	return s.repo.UpdateClient(ctx, domain.Client{ID: id, Name: name})
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return validationError("client_id is required")
	}
	return s.repo.DeleteClient(ctx, id)
}
