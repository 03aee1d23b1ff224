package domain

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is a proposed booking checked against the existing schedule
// before it is saved.
type Candidate struct {
	ProfessionalID uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
}

// EndTimeFor derives an appointment's end from its start and the selected
// service's duration in minutes.
func EndTimeFor(start time.Time, svc Service) time.Time {
	return start.Add(time.Duration(svc.DurationMinutes) * time.Minute)
}

// FindConflict returns the first existing appointment of the same
// professional whose interval overlaps the candidate's. The overlap test is
// open-interval: appointments that merely touch at an endpoint do not conflict.
// excludeID skips one appointment, so an edit never conflicts with its own
// prior record; pass uuid.Nil to check all.
func FindConflict(c Candidate, existing []Appointment, excludeID uuid.UUID) (Appointment, bool) {
	start := c.StartTime.UTC()
	end := c.EndTime.UTC()
	for _, e := range existing {
		if excludeID != uuid.Nil && e.ID == excludeID {
			continue
		}
		if e.ProfessionalID != c.ProfessionalID {
			continue
		}
		if start.Before(e.EndTime.UTC()) && end.After(e.StartTime.UTC()) {
			return e, true
		}
	}
	return Appointment{}, false
}

// FreeSlots returns start times within [windowStart, windowEnd) where a
// booking of the given duration for the professional would not conflict with
// any existing appointment. Slot starts advance by step.
func FreeSlots(professionalID uuid.UUID, windowStart, windowEnd time.Time, duration, step time.Duration, existing []Appointment) []time.Time {
	if duration <= 0 || step <= 0 {
		return nil
	}
	if !windowEnd.After(windowStart) {
		return nil
	}
	if windowStart.Add(duration).After(windowEnd) {
		return nil
	}

	var slots []time.Time
	for t := windowStart; !t.Add(duration).After(windowEnd); t = t.Add(step) {
		c := Candidate{ProfessionalID: professionalID, StartTime: t, EndTime: t.Add(duration)}
		if _, conflict := FindConflict(c, existing, uuid.Nil); !conflict {
			slots = append(slots, t)
		}
	}
	return slots
}
