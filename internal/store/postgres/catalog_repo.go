package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"salonbook/internal/domain"
	"salonbook/internal/store"
)

type CatalogRepo struct {
	db *bun.DB
}

func NewCatalogRepo(db *bun.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) ListServices(ctx context.Context) ([]domain.Service, error) {
	var rows []domain.Service
	err := r.db.NewSelect().Model(&rows).OrderExpr("name ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var row domain.Service
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Service{}, store.ErrNotFound
		}
		return domain.Service{}, err
	}
	return row, nil
}

func (r *CatalogRepo) CreateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	_, err := r.db.NewInsert().Model(&svc).Exec(ctx)
	if err != nil {
		return domain.Service{}, err
	}
	return svc, nil
}

func (r *CatalogRepo) UpdateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	res, err := r.db.NewUpdate().
		Model(&svc).
		Column("name", "price_cents", "duration_minutes", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Service{}, err
	}
	if err := requireAffected(res); err != nil {
		return domain.Service{}, err
	}
	return svc, nil
}

func (r *CatalogRepo) DeleteService(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Service)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return mapDeleteError(err)
	}
	return requireAffected(res)
}

func (r *CatalogRepo) ListProfessionals(ctx context.Context) ([]domain.Professional, error) {
	var rows []domain.Professional
	err := r.db.NewSelect().Model(&rows).OrderExpr("name ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) GetProfessional(ctx context.Context, id uuid.UUID) (domain.Professional, error) {
	var row domain.Professional
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Professional{}, store.ErrNotFound
		}
		return domain.Professional{}, err
	}
	return row, nil
}

func (r *CatalogRepo) CreateProfessional(ctx context.Context, pro domain.Professional) (domain.Professional, error) {
	_, err := r.db.NewInsert().Model(&pro).Exec(ctx)
	if err != nil {
		return domain.Professional{}, err
	}
	return pro, nil
}

func (r *CatalogRepo) UpdateProfessional(ctx context.Context, pro domain.Professional) (domain.Professional, error) {
	res, err := r.db.NewUpdate().
		Model(&pro).
		Column("name", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Professional{}, err
	}
	if err := requireAffected(res); err != nil {
		return domain.Professional{}, err
	}
	return pro, nil
}

func (r *CatalogRepo) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Professional)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return mapDeleteError(err)
	}
	return requireAffected(res)
}

func (r *CatalogRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	var rows []domain.Client
	err := r.db.NewSelect().Model(&rows).OrderExpr("name ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	var row domain.Client
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Client{}, store.ErrNotFound
		}
		return domain.Client{}, err
	}
	return row, nil
}

func (r *CatalogRepo) CreateClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	_, err := r.db.NewInsert().Model(&client).Exec(ctx)
	if err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (r *CatalogRepo) UpdateClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	res, err := r.db.NewUpdate().
		Model(&client).
		Column("name", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Client{}, err
	}
	if err := requireAffected(res); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (r *CatalogRepo) DeleteClient(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Client)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return mapDeleteError(err)
	}
	return requireAffected(res)
}

// mapDeleteError surfaces a foreign-key violation (the row is still referenced
// by an appointment) as ErrReferenced.
func mapDeleteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return store.ErrReferenced
	}
	return err
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
