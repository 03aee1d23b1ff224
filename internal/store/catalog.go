package store

import (
	"context"

	"github.com/google/uuid"

	"salonbook/internal/domain"
)

// CatalogRepository holds the reference data the booking page loads up
// front: services, professionals, and clients.
type CatalogRepository interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (domain.Service, error)
	CreateService(ctx context.Context, svc domain.Service) (domain.Service, error)
	UpdateService(ctx context.Context, svc domain.Service) (domain.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error

	ListProfessionals(ctx context.Context) ([]domain.Professional, error)
	GetProfessional(ctx context.Context, id uuid.UUID) (domain.Professional, error)
	CreateProfessional(ctx context.Context, pro domain.Professional) (domain.Professional, error)
	UpdateProfessional(ctx context.Context, pro domain.Professional) (domain.Professional, error)
	DeleteProfessional(ctx context.Context, id uuid.UUID) error

	ListClients(ctx context.Context) ([]domain.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error)
	CreateClient(ctx context.Context, client domain.Client) (domain.Client, error)
	UpdateClient(ctx context.Context, client domain.Client) (domain.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
}
