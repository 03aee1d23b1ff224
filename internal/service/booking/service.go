package booking

import (
	"context"
	"errors"
	"strings"
	"time"

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

const defaultSlotStep = 15 * time.Minute

type Service struct {
	repo    store.AppointmentRepository
	catalog store.CatalogRepository
}

func NewService(repo store.AppointmentRepository, catalog store.CatalogRepository) *Service {
	return &Service{repo: repo, catalog: catalog}
}

type CreateInput struct {
	ClientID       uuid.UUID
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	StartTime      time.Time
	// EndTime is optional; when zero it is derived from the service's
	// duration.
	EndTime time.Time
	// PriceCents is optional; when nil the service's price applies.
	PriceCents     *int64
	Attended       bool
	IdempotencyKey string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	appt, err := s.buildAppointment(ctx, in.ClientID, in.ProfessionalID, in.ServiceID, in.StartTime, in.EndTime, in.PriceCents, in.Attended)
	if err != nil {
		return domain.Appointment{}, err
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > 256 {
			return domain.Appointment{}, validationError("idempotency_key too long")
		}
		appt.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("salonbook:create_appointment:"+in.ProfessionalID.String()+":"+key))
	}

	return s.repo.Create(ctx, appt)
}

type UpdateInput struct {
	ClientID       uuid.UUID
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	PriceCents     *int64
	Attended       bool
}

func (s *Service) Update(ctx context.Context, appointmentID uuid.UUID, in UpdateInput) (domain.Appointment, error) {
	if appointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}

	current, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return domain.Appointment{}, err
	}

	appt, err := s.buildAppointment(ctx, in.ClientID, in.ProfessionalID, in.ServiceID, in.StartTime, in.EndTime, in.PriceCents, in.Attended)
	if err != nil {
		return domain.Appointment{}, err
	}
	appt.ID = appointmentID
	appt.CreatedAt = current.CreatedAt

	return s.repo.Update(ctx, appt)
}

func (s *Service) buildAppointment(ctx context.Context, clientID, professionalID, serviceID uuid.UUID, start, end time.Time, priceCents *int64, attended bool) (domain.Appointment, error) {
	if clientID == uuid.Nil {
		return domain.Appointment{}, validationError("client_id is required")
	}
	if professionalID == uuid.Nil {
		return domain.Appointment{}, validationError("professional_id is required")
	}
	if serviceID == uuid.Nil {
		return domain.Appointment{}, validationError("service_id is required")
	}
	if start.IsZero() {
		return domain.Appointment{}, validationError("start_time is required")
	}

	svc, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, validationError("service not found")
		}
		return domain.Appointment{}, err
	}
	if _, err := s.catalog.GetProfessional(ctx, professionalID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, validationError("professional not found")
		}
		return domain.Appointment{}, err
	}
	if _, err := s.catalog.GetClient(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, validationError("client not found")
		}
		return domain.Appointment{}, err
	}

	startUTC := start.UTC()
	endUTC := end.UTC()
	if end.IsZero() {
		endUTC = domain.EndTimeFor(startUTC, svc)
	}
	if endUTC.Equal(startUTC) || endUTC.Before(startUTC) {
		return domain.Appointment{}, validationError("end_time must be after start_time")
	}
	if endUTC.Sub(startUTC) > 24*time.Hour {
		return domain.Appointment{}, validationError("duration too long")
	}

	price := svc.PriceCents
	if priceCents != nil {
		price = *priceCents
	}
	if price < 0 {
		return domain.Appointment{}, validationError("price_cents must not be negative")
	}

	return domain.Appointment{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      startUTC,
		EndTime:        endUTC,
		PriceCents:     price,
		Attended:       attended,
	}, nil
}

func (s *Service) Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	if appointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	return s.repo.Get(ctx, appointmentID)
}

func (s *Service) List(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	start := windowStart.UTC()
	end := windowEnd.UTC()
	if end.Equal(start) || end.Before(start) {
		return nil, validationError("window_end must be after window_start")
	}
	return s.repo.List(ctx, start, end)
}

func (s *Service) Delete(ctx context.Context, appointmentID uuid.UUID) error {
	if appointmentID == uuid.Nil {
		return validationError("appointment_id is required")
	}
	return s.repo.Delete(ctx, appointmentID)
}

// SuggestSlots returns free start times for the professional within the
// window, sized by the service's duration.
func (s *Service) SuggestSlots(ctx context.Context, professionalID, serviceID uuid.UUID, windowStart, windowEnd time.Time, step time.Duration) ([]time.Time, error) {
	if professionalID == uuid.Nil {
		return nil, validationError("professional_id is required")
	}
	if serviceID == uuid.Nil {
		return nil, validationError("service_id is required")
	}
	start := windowStart.UTC()
	end := windowEnd.UTC()
	if end.Equal(start) || end.Before(start) {
		return nil, validationError("window_end must be after window_start")
	}
	if step <= 0 {
		step = defaultSlotStep
	}

	svc, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationError("service not found")
		}
		return nil, err
	}
	if svc.DurationMinutes <= 0 {
		return nil, validationError("service has no duration")
	}

	existing, err := s.repo.ListForProfessional(ctx, professionalID, start, end)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(svc.DurationMinutes) * time.Minute
	return domain.FreeSlots(professionalID, start, end, duration, step, existing), nil
}
