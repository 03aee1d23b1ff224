// Package rediscache layers a read-through cache over the catalog
// repository. The booking page loads all services, professionals, and
// clients on every visit; those lists change rarely, so list reads are
// served from redis and invalidated on any catalog write. Cache failures
// fall back to the underlying repository.
package rediscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"salonbook/internal/domain"
	"salonbook/internal/store"
)

const (
	servicesKey      = "catalog:services"
	professionalsKey = "catalog:professionals"
	clientsKey       = "catalog:clients"
)

func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type CatalogCache struct {
	repo store.CatalogRepository
	rdb  *redis.Client
	ttl  time.Duration
	log  *slog.Logger
}

func NewCatalogCache(repo store.CatalogRepository, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *CatalogCache {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{
		repo: repo,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With(slog.String("component", "rediscache.catalog")),
	}
}

func (c *CatalogCache) ListServices(ctx context.Context) ([]domain.Service, error) {
	return cachedList(ctx, c, servicesKey, c.repo.ListServices)
}

func (c *CatalogCache) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	return c.repo.GetService(ctx, id)
}

func (c *CatalogCache) CreateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	out, err := c.repo.CreateService(ctx, svc)
	if err != nil {
		return domain.Service{}, err
	}
	c.invalidate(ctx, servicesKey)
	return out, nil
}

func (c *CatalogCache) UpdateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	out, err := c.repo.UpdateService(ctx, svc)
	if err != nil {
		return domain.Service{}, err
	}
	c.invalidate(ctx, servicesKey)
	return out, nil
}

func (c *CatalogCache) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := c.repo.DeleteService(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, servicesKey)
	return nil
}

func (c *CatalogCache) ListProfessionals(ctx context.Context) ([]domain.Professional, error) {
	return cachedList(ctx, c, professionalsKey, c.repo.ListProfessionals)
}

func (c *CatalogCache) GetProfessional(ctx context.Context, id uuid.UUID) (domain.Professional, error) {
	return c.repo.GetProfessional(ctx, id)
}

func (c *CatalogCache) CreateProfessional(ctx context.Context, pro domain.Professional) (domain.Professional, error) {
	out, err := c.repo.CreateProfessional(ctx, pro)
	if err != nil {
		return domain.Professional{}, err
	}
	c.invalidate(ctx, professionalsKey)
	return out, nil
}

func (c *CatalogCache) UpdateProfessional(ctx context.Context, pro domain.Professional) (domain.Professional, error) {
	out, err := c.repo.UpdateProfessional(ctx, pro)
	if err != nil {
		return domain.Professional{}, err
	}
	c.invalidate(ctx, professionalsKey)
	return out, nil
}

func (c *CatalogCache) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	if err := c.repo.DeleteProfessional(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, professionalsKey)
	return nil
}

func (c *CatalogCache) ListClients(ctx context.Context) ([]domain.Client, error) {
	return cachedList(ctx, c, clientsKey, c.repo.ListClients)
}

func (c *CatalogCache) GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	return c.repo.GetClient(ctx, id)
}

func (c *CatalogCache) CreateClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	out, err := c.repo.CreateClient(ctx, client)
	if err != nil {
		return domain.Client{}, err
	}
	c.invalidate(ctx, clientsKey)
	return out, nil
}

func (c *CatalogCache) UpdateClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	out, err := c.repo.UpdateClient(ctx, client)
	if err != nil {
		return domain.Client{}, err
	}
	c.invalidate(ctx, clientsKey)
	return out, nil
}

func (c *CatalogCache) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if err := c.repo.DeleteClient(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, clientsKey)
	return nil
}

func cachedList[T any](ctx context.Context, c *CatalogCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var rows []T
		if err := json.Unmarshal(data, &rows); err == nil {
			return rows, nil
		}
		c.log.Warn("cache entry unreadable; reloading", slog.String("key", key))
	} else if err != redis.Nil {
		c.log.Warn("cache read failed", slog.String("key", key), slog.Any("err", err))
	}

	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rows); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn("cache write failed", slog.String("key", key), slog.Any("err", err))
		}
	}
	return rows, nil
}

func (c *CatalogCache) invalidate(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Warn("cache invalidation failed", slog.String("key", key), slog.Any("err", err))
	}
}
