package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"salonbook/internal/domain"
	"salonbook/internal/store"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type scheduleTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.InProfessionalTransaction(ctx, appt.ProfessionalID, func(ctx context.Context, tx store.ScheduleTx) error {
		// Exclude the appointment's own id so an idempotent replay of a
		// prior create does not collide with its own stored row.
		if err := ensureNoScheduleConflict(ctx, tx, appt, appt.ID); err != nil {
			return err
		}
		a, err := tx.InsertAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.InProfessionalTransaction(ctx, appt.ProfessionalID, func(ctx context.Context, tx store.ScheduleTx) error {
		if err := ensureNoScheduleConflict(ctx, tx, appt, appt.ID); err != nil {
			return err
		}
		a, err := tx.UpdateAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepo) Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	var row domain.Appointment
	err := r.db.NewSelect().
		Model(&row).
		Where("id = ?", appointmentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return row, nil
}

func (r *AppointmentRepo) List(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListForProfessional(ctx context.Context, professionalID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("professional_id = ?", professionalID).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, appointmentID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", appointmentID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// InProfessionalTransaction serializes writes against one professional's
// calendar with an advisory transaction lock, so the conflict check and the
// insert/update see a consistent schedule.
func (r *AppointmentRepo) InProfessionalTransaction(ctx context.Context, professionalID uuid.UUID, fn func(ctx context.Context, tx store.ScheduleTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProfessionalSchedule(ctx, tx, professionalID); err != nil {
			return err
		}
		return fn(ctx, scheduleTx{tx: tx})
	})
}

func lockProfessionalSchedule(ctx context.Context, tx bun.Tx, professionalID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", professionalID.String()).Exec(ctx)
	return err
}

func ensureNoScheduleConflict(ctx context.Context, tx store.ScheduleTx, appt domain.Appointment, excludeID uuid.UUID) error {
	existing, err := tx.ListProfessionalAppointments(ctx, appt.ProfessionalID, appt.StartTime, appt.EndTime)
	if err != nil {
		return err
	}
	candidate := domain.Candidate{
		ProfessionalID: appt.ProfessionalID,
		StartTime:      appt.StartTime,
		EndTime:        appt.EndTime,
	}
	if _, conflict := domain.FindConflict(candidate, existing, excludeID); conflict {
		return store.ErrConflict
	}
	return nil
}

func (r scheduleTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	// An explicit id means an idempotency key was applied. Look for the prior
	// row before inserting: once a statement fails inside the transaction the
	// rest of it is unusable, so the replay check cannot ride on a unique
	// violation. The advisory lock serializes same-professional creates, which
	// keeps this check race-free.
	if appt.ID != uuid.Nil {
		var existing domain.Appointment
		err := r.tx.NewSelect().
			Model(&existing).
			Where("id = ?", appt.ID).
			Limit(1).
			Scan(ctx)
		if err == nil {
			if existing.ClientID != appt.ClientID ||
				existing.ProfessionalID != appt.ProfessionalID ||
				existing.ServiceID != appt.ServiceID ||
				existing.PriceCents != appt.PriceCents ||
				existing.Attended != appt.Attended ||
				!existing.StartTime.Equal(appt.StartTime) ||
				!existing.EndTime.Equal(appt.EndTime) {
				return domain.Appointment{}, store.ErrIdempotencyConflict
			}
			return existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, err
		}
	}

	m := domain.Appointment{
		ID:             appt.ID,
		ClientID:       appt.ClientID,
		ProfessionalID: appt.ProfessionalID,
		ServiceID:      appt.ServiceID,
		StartTime:      appt.StartTime,
		EndTime:        appt.EndTime,
		PriceCents:     appt.PriceCents,
		Attended:       appt.Attended,
		CreatedAt:      appt.CreatedAt,
		UpdatedAt:      appt.UpdatedAt,
	}

	_, err := r.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_professional_overlap" {
				return domain.Appointment{}, store.ErrConflict
			}
			if pgErr.Code == "23503" {
				return domain.Appointment{}, store.ErrNotFound
			}
			if pgErr.Code == "23505" {
				return domain.Appointment{}, store.ErrIdempotencyConflict
			}
		}
		return domain.Appointment{}, err
	}

	appt.ID = m.ID
	return appt, nil
}

func (r scheduleTx) UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:             appt.ID,
		ClientID:       appt.ClientID,
		ProfessionalID: appt.ProfessionalID,
		ServiceID:      appt.ServiceID,
		StartTime:      appt.StartTime,
		EndTime:        appt.EndTime,
		PriceCents:     appt.PriceCents,
		Attended:       appt.Attended,
		CreatedAt:      appt.CreatedAt,
		UpdatedAt:      appt.UpdatedAt,
	}

	res, err := r.tx.NewUpdate().
		Model(&m).
		Column("client_id", "professional_id", "service_id", "start_time", "end_time", "price_cents", "attended", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_professional_overlap" {
				return domain.Appointment{}, store.ErrConflict
			}
			if pgErr.Code == "23503" {
				return domain.Appointment{}, store.ErrNotFound
			}
		}
		return domain.Appointment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return m, nil
}

func (r scheduleTx) ListProfessionalAppointments(ctx context.Context, professionalID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.tx.NewSelect().
		Model(&rows).
		Where("professional_id = ?", professionalID).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
