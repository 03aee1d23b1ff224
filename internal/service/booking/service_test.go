package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"salonbook/internal/domain"
	"salonbook/internal/store"
)

var (
	clientID       = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	professionalID = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	serviceID      = uuid.MustParse("00000000-0000-0000-0000-0000000000d1")
)

type fakeApptRepo struct {
	createFn              func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	updateFn              func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	getFn                 func(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	listFn                func(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	listForProfessionalFn func(ctx context.Context, professionalID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	deleteFn              func(ctx context.Context, appointmentID uuid.UUID) error
}

func (f *fakeApptRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, appt)
}

func (f *fakeApptRepo) Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, appt)
}

func (f *fakeApptRepo) Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx, appointmentID)
}

func (f *fakeApptRepo) List(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx, windowStart, windowEnd)
}

func (f *fakeApptRepo) ListForProfessional(ctx context.Context, professionalID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	if f.listForProfessionalFn == nil {
		panic("ListForProfessional not configured")
	}
	return f.listForProfessionalFn(ctx, professionalID, windowStart, windowEnd)
}

func (f *fakeApptRepo) Delete(ctx context.Context, appointmentID uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, appointmentID)
}

// fakeCatalog resolves the three references; unset lookups succeed with bare
// records so booking tests only configure what they assert on.
type fakeCatalog struct {
	getServiceFn func(ctx context.Context, id uuid.UUID) (domain.Service, error)
}

func (f *fakeCatalog) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	if f.getServiceFn == nil {
		return domain.Service{ID: id, Name: "haircut", PriceCents: 3000, DurationMinutes: 30}, nil
	}
	return f.getServiceFn(ctx, id)
}

func (f *fakeCatalog) GetProfessional(ctx context.Context, id uuid.UUID) (domain.Professional, error) {
	return domain.Professional{ID: id, Name: "pro"}, nil
}

func (f *fakeCatalog) GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	return domain.Client{ID: id, Name: "client"}, nil
}

func (f *fakeCatalog) ListServices(ctx context.Context) ([]domain.Service, error) {
	panic("not used")
}

func (f *fakeCatalog) CreateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	panic("not used")
}

func (f *fakeCatalog) UpdateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	panic("not used")
}

func (f *fakeCatalog) DeleteService(ctx context.Context, id uuid.UUID) error {
	panic("not used")
}

func (f *fakeCatalog) ListProfessionals(ctx context.Context) ([]domain.Professional, error) {
	panic("not used")
}

func (f *fakeCatalog) CreateProfessional(ctx context.Context, pro domain.Professional) (domain.Professional, error) {
	panic("not used")
}

func (f *fakeCatalog) UpdateProfessional(ctx context.Context, pro domain.Professional) (domain.Professional, error) {
	panic("not used")
}

func (f *fakeCatalog) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	panic("not used")
}

func (f *fakeCatalog) ListClients(ctx context.Context) ([]domain.Client, error) {
	panic("not used")
}

func (f *fakeCatalog) CreateClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	panic("not used")
}

func (f *fakeCatalog) UpdateClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	panic("not used")
}

func (f *fakeCatalog) DeleteClient(ctx context.Context, id uuid.UUID) error {
	panic("not used")
}

func TestServiceCreate_ValidationErrorType(t *testing.T) {
	svc := NewService(&fakeApptRepo{
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			return appt, nil
		},
	}, &fakeCatalog{})

	_, err := svc.Create(context.Background(), CreateInput{
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Error() != "client_id is required" {
		t.Fatalf("error = %q, want %q", vErr.Error(), "client_id is required")
	}
}

func TestServiceCreate_DerivesEndTimeAndPriceFromService(t *testing.T) {
	var got domain.Appointment
	svc := NewService(&fakeApptRepo{
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			got = appt
			return appt, nil
		},
	}, &fakeCatalog{
		getServiceFn: func(ctx context.Context, id uuid.UUID) (domain.Service, error) {
			return domain.Service{ID: id, Name: "color", PriceCents: 8500, DurationMinutes: 45}, nil
		},
	})

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), CreateInput{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      start,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if wantEnd := start.Add(45 * time.Minute); !got.EndTime.Equal(wantEnd) {
		t.Fatalf("end_time = %v, want %v", got.EndTime, wantEnd)
	}
	if got.PriceCents != 8500 {
		t.Fatalf("price_cents = %d, want 8500", got.PriceCents)
	}
}

func TestServiceCreate_ExplicitEndAndPriceOverride(t *testing.T) {
	var got domain.Appointment
	svc := NewService(&fakeApptRepo{
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			got = appt
			return appt, nil
		},
	}, &fakeCatalog{})

	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, loc)
	end := time.Date(2026, 3, 2, 11, 30, 0, 0, loc)
	price := int64(9900)

	_, err = svc.Create(context.Background(), CreateInput{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      start,
		EndTime:        end,
		PriceCents:     &price,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if got.StartTime.Location() != time.UTC || got.EndTime.Location() != time.UTC {
		t.Fatalf("expected UTC times, got start=%v end=%v", got.StartTime, got.EndTime)
	}
	if want := 90 * time.Minute; got.EndTime.Sub(got.StartTime) != want {
		t.Fatalf("duration = %v, want %v", got.EndTime.Sub(got.StartTime), want)
	}
	if got.PriceCents != 9900 {
		t.Fatalf("price_cents = %d, want 9900", got.PriceCents)
	}
}

func TestServiceCreate_RejectsEndBeforeStart(t *testing.T) {
	svc := NewService(&fakeApptRepo{}, &fakeCatalog{})

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), CreateInput{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      start,
		EndTime:        start.Add(-time.Minute),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
}

func TestServiceCreate_RejectsNegativePrice(t *testing.T) {
	svc := NewService(&fakeApptRepo{}, &fakeCatalog{})

	price := int64(-1)
	_, err := svc.Create(context.Background(), CreateInput{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		PriceCents:     &price,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
}

func TestServiceCreate_UnknownServiceIsValidationError(t *testing.T) {
	svc := NewService(&fakeApptRepo{}, &fakeCatalog{
		getServiceFn: func(ctx context.Context, id uuid.UUID) (domain.Service, error) {
			return domain.Service{}, store.ErrNotFound
		},
	})

	_, err := svc.Create(context.Background(), CreateInput{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Error() != "service not found" {
		t.Fatalf("error = %q, want %q", vErr.Error(), "service not found")
	}
}

func TestServiceCreate_IdempotencyKeyDeterministicUUID(t *testing.T) {
	var ids []uuid.UUID
	svc := NewService(&fakeApptRepo{
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			ids = append(ids, appt.ID)
			return appt, nil
		},
	}, &fakeCatalog{})

	in := CreateInput{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		IdempotencyKey: "k1",
	}

	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	in.IdempotencyKey = "k2"
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if len(ids) != 3 {
		t.Fatalf("captured ids = %d, want 3", len(ids))
	}
	if ids[0] == uuid.Nil {
		t.Fatalf("expected non-nil id")
	}
	if ids[0] != ids[1] {
		t.Fatalf("same key produced different ids: %s vs %s", ids[0], ids[1])
	}
	if ids[0] == ids[2] {
		t.Fatalf("different keys produced the same id: %s", ids[0])
	}
}

func TestServiceCreate_PropagatesConflict(t *testing.T) {
	svc := NewService(&fakeApptRepo{
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrConflict
		},
	}, &fakeCatalog{})

	_, err := svc.Create(context.Background(), CreateInput{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("error = %v, want %v", err, store.ErrConflict)
	}
}

func TestServiceUpdate_KeepsIDAndCreatedAt(t *testing.T) {
	apptID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	createdAt := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	var got domain.Appointment
	svc := NewService(&fakeApptRepo{
		getFn: func(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{ID: appointmentID, CreatedAt: createdAt}, nil
		},
		updateFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			got = appt
			return appt, nil
		},
	}, &fakeCatalog{})

	_, err := svc.Update(context.Background(), apptID, UpdateInput{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.ID != apptID {
		t.Fatalf("id = %s, want %s", got.ID, apptID)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, createdAt)
	}
}

func TestServiceUpdate_MissingAppointment(t *testing.T) {
	svc := NewService(&fakeApptRepo{
		getFn: func(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrNotFound
		},
	}, &fakeCatalog{})

	_, err := svc.Update(context.Background(), uuid.MustParse("00000000-0000-0000-0000-000000000001"), UpdateInput{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartTime:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, store.ErrNotFound)
	}
}

func TestServiceList_WindowValidation(t *testing.T) {
	svc := NewService(&fakeApptRepo{}, &fakeCatalog{})

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := svc.List(context.Background(), start, start)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
}

func TestServiceSuggestSlots(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	existing := []domain.Appointment{
		{
			ID:             uuid.MustParse("00000000-0000-0000-0000-000000000001"),
			ProfessionalID: professionalID,
			StartTime:      day.Add(10 * time.Hour),
			EndTime:        day.Add(10*time.Hour + 30*time.Minute),
		},
	}

	svc := NewService(&fakeApptRepo{
		listForProfessionalFn: func(ctx context.Context, proID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
			if proID != professionalID {
				t.Fatalf("professional_id = %s, want %s", proID, professionalID)
			}
			return existing, nil
		},
	}, &fakeCatalog{})

	slots, err := svc.SuggestSlots(context.Background(), professionalID, serviceID, day.Add(9*time.Hour), day.Add(11*time.Hour), 30*time.Minute)
	if err != nil {
		t.Fatalf("SuggestSlots error: %v", err)
	}

	// Service duration is 30m; the 10:00-10:30 booking blocks only that slot.
	want := []time.Time{
		day.Add(9 * time.Hour),
		day.Add(9*time.Hour + 30*time.Minute),
		day.Add(10*time.Hour + 30*time.Minute),
	}
	if len(slots) != len(want) {
		t.Fatalf("len(slots) = %d, want %d (%v)", len(slots), len(want), slots)
	}
	for i := range want {
		if !slots[i].Equal(want[i]) {
			t.Fatalf("slots[%d] = %v, want %v", i, slots[i], want[i])
		}
	}
}

func TestServiceSuggestSlots_ServiceWithoutDuration(t *testing.T) {
	svc := NewService(&fakeApptRepo{}, &fakeCatalog{
		getServiceFn: func(ctx context.Context, id uuid.UUID) (domain.Service, error) {
			return domain.Service{ID: id, Name: "consult", DurationMinutes: 0}, nil
		},
	})

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := svc.SuggestSlots(context.Background(), professionalID, serviceID, day, day.Add(time.Hour), 0)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
}
