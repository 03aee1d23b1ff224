package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook/internal/domain"
)

// ScheduleTx is the per-professional transactional view used while saving an
// appointment: the caller holds the professional's calendar lock for the
// duration of the transaction.
type ScheduleTx interface {
	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	ListProfessionalAppointments(ctx context.Context, professionalID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
}
