package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonbook/internal/domain"
	"salonbook/internal/service/catalog"
	"salonbook/internal/store"
)

type catalogService interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	CreateService(ctx context.Context, in catalog.ServiceInput) (domain.Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, in catalog.ServiceInput) (domain.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error

	ListProfessionals(ctx context.Context) ([]domain.Professional, error)
	CreateProfessional(ctx context.Context, name string) (domain.Professional, error)
	UpdateProfessional(ctx context.Context, id uuid.UUID, name string) (domain.Professional, error)
	DeleteProfessional(ctx context.Context, id uuid.UUID) error

	ListClients(ctx context.Context) ([]domain.Client, error)
	CreateClient(ctx context.Context, name string) (domain.Client, error)
	UpdateClient(ctx context.Context, id uuid.UUID, name string) (domain.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
}

type CatalogHandler struct {
	svc catalogService
	log *slog.Logger
}

func NewCatalogHandler(svc catalogService, log *slog.Logger) *CatalogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogHandler{
		svc: svc,
		log: log.With(slog.String("component", "httpapi.catalog")),
	}
}

type serviceRequest struct {
	Name            string `json:"name" binding:"required"`
	PriceCents      int64  `json:"price_cents"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type apiService struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PriceCents      int64     `json:"price_cents"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type apiNamed struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAPIService(s domain.Service) apiService {
	return apiService{
		ID:              s.ID.String(),
		Name:            s.Name,
		PriceCents:      s.PriceCents,
		DurationMinutes: s.DurationMinutes,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	rows, err := h.svc.ListServices(c.Request.Context())
	if err != nil {
		h.respondError(c, h.log.With(slog.String("handler", "ListServices")), "service", err)
		return
	}
	out := make([]apiService, 0, len(rows))
	for _, s := range rows {
		out = append(out, toAPIService(s))
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	log := h.log.With(slog.String("handler", "CreateService"))

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	svc, err := h.svc.CreateService(c.Request.Context(), catalog.ServiceInput{
		Name:            req.Name,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		h.respondError(c, log, "service", err)
		return
	}

	log.Info("service created", slog.String("service_id", svc.ID.String()), slog.String("name", svc.Name))
	c.JSON(http.StatusCreated, gin.H{"service": toAPIService(svc)})
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	log := h.log.With(slog.String("handler", "UpdateService"))

	id, ok := pathID(c, log)
	if !ok {
		return
	}
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	svc, err := h.svc.UpdateService(c.Request.Context(), id, catalog.ServiceInput{
		Name:            req.Name,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		h.respondError(c, log, "service", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": toAPIService(svc)})
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	log := h.log.With(slog.String("handler", "DeleteService"))

	id, ok := pathID(c, log)
	if !ok {
		return
	}
	if err := h.svc.DeleteService(c.Request.Context(), id); err != nil {
		h.respondError(c, log, "service", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListProfessionals(c *gin.Context) {
	rows, err := h.svc.ListProfessionals(c.Request.Context())
	if err != nil {
		h.respondError(c, h.log.With(slog.String("handler", "ListProfessionals")), "professional", err)
		return
	}
	out := make([]apiNamed, 0, len(rows))
	for _, p := range rows {
		out = append(out, apiNamed{ID: p.ID.String(), Name: p.Name, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"professionals": out})
}

func (h *CatalogHandler) CreateProfessional(c *gin.Context) {
	log := h.log.With(slog.String("handler", "CreateProfessional"))

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pro, err := h.svc.CreateProfessional(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, log, "professional", err)
		return
	}

	log.Info("professional created", slog.String("professional_id", pro.ID.String()), slog.String("name", pro.Name))
	c.JSON(http.StatusCreated, gin.H{"professional": apiNamed{ID: pro.ID.String(), Name: pro.Name, CreatedAt: pro.CreatedAt, UpdatedAt: pro.UpdatedAt}})
}

func (h *CatalogHandler) UpdateProfessional(c *gin.Context) {
	log := h.log.With(slog.String("handler", "UpdateProfessional"))

	id, ok := pathID(c, log)
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pro, err := h.svc.UpdateProfessional(c.Request.Context(), id, req.Name)
	if err != nil {
		h.respondError(c, log, "professional", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"professional": apiNamed{ID: pro.ID.String(), Name: pro.Name, CreatedAt: pro.CreatedAt, UpdatedAt: pro.UpdatedAt}})
}

func (h *CatalogHandler) DeleteProfessional(c *gin.Context) {
	log := h.log.With(slog.String("handler", "DeleteProfessional"))

	id, ok := pathID(c, log)
	if !ok {
		return
	}
	if err := h.svc.DeleteProfessional(c.Request.Context(), id); err != nil {
		h.respondError(c, log, "professional", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListClients(c *gin.Context) {
	rows, err := h.svc.ListClients(c.Request.Context())
	if err != nil {
		h.respondError(c, h.log.With(slog.String("handler", "ListClients")), "client", err)
		return
	}
	out := make([]apiNamed, 0, len(rows))
	for _, cl := range rows {
		out = append(out, apiNamed{ID: cl.ID.String(), Name: cl.Name, CreatedAt: cl.CreatedAt, UpdatedAt: cl.UpdatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"clients": out})
}

func (h *CatalogHandler) CreateClient(c *gin.Context) {
	log := h.log.With(slog.String("handler", "CreateClient"))

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	client, err := h.svc.CreateClient(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, log, "client", err)
		return
	}

	log.Info("client created", slog.String("client_id", client.ID.String()), slog.String("name", client.Name))
	c.JSON(http.StatusCreated, gin.H{"client": apiNamed{ID: client.ID.String(), Name: client.Name, CreatedAt: client.CreatedAt, UpdatedAt: client.UpdatedAt}})
}

func (h *CatalogHandler) UpdateClient(c *gin.Context) {
	log := h.log.With(slog.String("handler", "UpdateClient"))

	id, ok := pathID(c, log)
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	client, err := h.svc.UpdateClient(c.Request.Context(), id, req.Name)
	if err != nil {
		h.respondError(c, log, "client", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": apiNamed{ID: client.ID.String(), Name: client.Name, CreatedAt: client.CreatedAt, UpdatedAt: client.UpdatedAt}})
}

func (h *CatalogHandler) DeleteClient(c *gin.Context) {
	log := h.log.With(slog.String("handler", "DeleteClient"))

	id, ok := pathID(c, log)
	if !ok {
		return
	}
	if err := h.svc.DeleteClient(c.Request.Context(), id); err != nil {
		h.respondError(c, log, "client", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) respondError(c *gin.Context, log *slog.Logger, entity string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info(entity + " not found")
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case errors.Is(err, store.ErrReferenced):
		log.Info(entity+" still referenced", slog.Any("err", err))
		c.JSON(http.StatusConflict, gin.H{"error": "This " + entity + " still has appointments and cannot be removed."})
	default:
		var vErr *catalog.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err))
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			return
		}
		log.Error("catalog request failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context, log *slog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}
