package appointment

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence boundary for appointments. List methods
// order by scheduled date then time so dashboards read chronologically.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	MarkReminded(ctx context.Context, id uuid.UUID) error
	// ListApprovedUnreminded returns every approved appointment whose
	// reminder has not gone out yet. The reminder scan filters by window.
	ListApprovedUnreminded(ctx context.Context) ([]*Appointment, error)
}
