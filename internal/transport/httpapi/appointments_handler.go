package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonbook/internal/domain"
	"salonbook/internal/service/booking"
	"salonbook/internal/store"
)

const conflictMessage = "That professional is already booked during this time. Pick a different slot."

type bookingService interface {
	Create(ctx context.Context, in booking.CreateInput) (domain.Appointment, error)
	Update(ctx context.Context, appointmentID uuid.UUID, in booking.UpdateInput) (domain.Appointment, error)
	Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	Delete(ctx context.Context, appointmentID uuid.UUID) error
	SuggestSlots(ctx context.Context, professionalID, serviceID uuid.UUID, windowStart, windowEnd time.Time, step time.Duration) ([]time.Time, error)
}

type AppointmentsHandler struct {
	svc bookingService
	log *slog.Logger
}

func NewAppointmentsHandler(svc bookingService, log *slog.Logger) *AppointmentsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsHandler{
		svc: svc,
		log: log.With(slog.String("component", "httpapi.appointments")),
	}
}

type appointmentRequest struct {
	ClientID       uuid.UUID  `json:"client_id" binding:"required"`
	ProfessionalID uuid.UUID  `json:"professional_id" binding:"required"`
	ServiceID      uuid.UUID  `json:"service_id" binding:"required"`
	StartTime      time.Time  `json:"start_time" binding:"required"`
	EndTime        *time.Time `json:"end_time"`
	PriceCents     *int64     `json:"price_cents"`
	Attended       bool       `json:"attended"`
}

type apiAppointment struct {
	ID             string    `json:"id"`
	ClientID       string    `json:"client_id"`
	ProfessionalID string    `json:"professional_id"`
	ServiceID      string    `json:"service_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	PriceCents     int64     `json:"price_cents"`
	Attended       bool      `json:"attended"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toAPIAppointment(a domain.Appointment) apiAppointment {
	return apiAppointment{
		ID:             a.ID.String(),
		ClientID:       a.ClientID.String(),
		ProfessionalID: a.ProfessionalID.String(),
		ServiceID:      a.ServiceID.String(),
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		PriceCents:     a.PriceCents,
		Attended:       a.Attended,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (h *AppointmentsHandler) Create(c *gin.Context) {
	log := h.log.With(slog.String("handler", "Create"))

	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var end time.Time
	if req.EndTime != nil {
		end = *req.EndTime
	}

	appt, err := h.svc.Create(c.Request.Context(), booking.CreateInput{
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		StartTime:      req.StartTime,
		EndTime:        end,
		PriceCents:     req.PriceCents,
		Attended:       req.Attended,
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("professional_id", appt.ProfessionalID.String()),
		slog.Time("start_time", appt.StartTime),
		slog.Time("end_time", appt.EndTime),
	)
	c.JSON(http.StatusCreated, gin.H{"appointment": toAPIAppointment(appt)})
}

func (h *AppointmentsHandler) Update(c *gin.Context) {
	log := h.log.With(slog.String("handler", "Update"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "appointment id must be a UUID"})
		return
	}

	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("appointment_id", id.String()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var end time.Time
	if req.EndTime != nil {
		end = *req.EndTime
	}

	appt, err := h.svc.Update(c.Request.Context(), id, booking.UpdateInput{
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		StartTime:      req.StartTime,
		EndTime:        end,
		PriceCents:     req.PriceCents,
		Attended:       req.Attended,
	})
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	log.Info("appointment updated", slog.String("appointment_id", appt.ID.String()))
	c.JSON(http.StatusOK, gin.H{"appointment": toAPIAppointment(appt)})
}

func (h *AppointmentsHandler) Get(c *gin.Context) {
	log := h.log.With(slog.String("handler", "Get"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "appointment id must be a UUID"})
		return
	}

	appt, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": toAPIAppointment(appt)})
}

func (h *AppointmentsHandler) List(c *gin.Context) {
	log := h.log.With(slog.String("handler", "List"))

	windowStart, windowEnd, ok := windowParams(c)
	if !ok {
		log.Warn("invalid request", slog.String("reason", "invalid_window"))
		return
	}

	appts, err := h.svc.List(c.Request.Context(), windowStart, windowEnd)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	out := make([]apiAppointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAPIAppointment(a))
	}

	log.Debug("appointments listed", slog.Int("count", len(out)), slog.Time("window_start", windowStart), slog.Time("window_end", windowEnd))
	c.JSON(http.StatusOK, gin.H{"appointments": out})
}

func (h *AppointmentsHandler) Delete(c *gin.Context) {
	log := h.log.With(slog.String("handler", "Delete"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "appointment id must be a UUID"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, log, err)
		return
	}

	log.Info("appointment deleted", slog.String("appointment_id", id.String()))
	c.Status(http.StatusNoContent)
}

func (h *AppointmentsHandler) Slots(c *gin.Context) {
	log := h.log.With(slog.String("handler", "Slots"))

	professionalID, err := uuid.Parse(c.Query("professional_id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_professional_id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "professional_id must be a UUID"})
		return
	}
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_service_id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_id must be a UUID"})
		return
	}

	windowStart, windowEnd, ok := windowParams(c)
	if !ok {
		log.Warn("invalid request", slog.String("reason", "invalid_window"))
		return
	}

	var step time.Duration
	if raw := strings.TrimSpace(c.Query("step_minutes")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "step_minutes must be a positive integer"})
			return
		}
		step = time.Duration(minutes) * time.Minute
	}

	slots, err := h.svc.SuggestSlots(c.Request.Context(), professionalID, serviceID, windowStart, windowEnd, step)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	out := make([]time.Time, 0, len(slots))
	out = append(out, slots...)
	c.JSON(http.StatusOK, gin.H{"slots": out})
}

func (h *AppointmentsHandler) respondError(c *gin.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrConflict):
		log.Info("appointment conflict")
		c.JSON(http.StatusConflict, gin.H{"error": conflictMessage})
	case errors.Is(err, store.ErrIdempotencyConflict):
		log.Info("idempotency conflict")
		c.JSON(http.StatusConflict, gin.H{"error": "This request key was already used for a different appointment. Try again."})
	case errors.Is(err, store.ErrNotFound):
		log.Info("appointment not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
	default:
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err))
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			return
		}
		log.Error("appointment request failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func idempotencyKey(c *gin.Context) string {
	key := c.GetHeader("Idempotency-Key")
	if key == "" {
		key = c.GetHeader("X-Idempotency-Key")
	}
	return strings.TrimSpace(key)
}

// windowParams parses the window_start / window_end query pair; on failure it
// writes the 400 response itself.
func windowParams(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, c.Query("window_start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_start must be an RFC 3339 timestamp"})
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, c.Query("window_end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_end must be an RFC 3339 timestamp"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
