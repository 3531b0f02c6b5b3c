package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/identity"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/notification"
	"github.com/clinic/clinic/pkg/apperr"
)

// UserDirectory resolves user accounts. Satisfied by identity.Service.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// Notifier delivers templated notifications. Satisfied by
// notification.Manager.
type Notifier interface {
	SendFromTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*notification.Notification, error)
}

// Service implements booking and the doctor review workflow.
type Service struct {
	repo     Repository
	users    UserDirectory
	notifier Notifier
	logger   zerolog.Logger
}

func NewService(repo Repository, users UserDirectory, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		logger:   logger.With().Str("component", "appointment").Logger(),
	}
}

// BookInput carries a booking request from a patient.
type BookInput struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Reason   string    `json:"reason"`
}

// Book creates a Pending appointment for the acting patient with the given
// doctor. Overlapping bookings for the same slot are allowed; resolving
// clashes is part of the doctor's review.
func (s *Service) Book(ctx context.Context, actor auth.Actor, in BookInput) (*Appointment, error) {
	if !actor.IsPatient() {
		return nil, apperr.Authorization("only patients can book appointments")
	}

	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Date == "" || in.Time == "" {
		return nil, apperr.Validation("date and time are required")
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return nil, apperr.Validation("date must be in %s format", DateLayout)
	}
	if _, err := time.Parse(TimeLayout, in.Time); err != nil {
		return nil, apperr.Validation("time must be in %s format", TimeLayout)
	}

	doctor, err := s.users.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsDoctor() {
		return nil, apperr.NotFound("doctor %s not found", in.DoctorID)
	}

	a := &Appointment{
		PatientID: actor.ID,
		DoctorID:  doctor.ID,
		Date:      in.Date,
		Time:      in.Time,
		Reason:    in.Reason,
		Status:    StatusPending,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", a.ID.String()).
		Str("patient_id", a.PatientID.String()).
		Str("doctor_id", a.DoctorID.String()).
		Msg("appointment booked")
	return a, nil
}

// ListForPatient returns the acting patient's own appointments.
func (s *Service) ListForPatient(ctx context.Context, actor auth.Actor, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, actor.ID, limit, offset)
}

// ListForDoctor returns the appointments booked with the acting doctor.
func (s *Service) ListForDoctor(ctx context.Context, actor auth.Actor, limit, offset int) ([]*Appointment, int, error) {
	if !actor.IsDoctor() {
		return nil, 0, apperr.Authorization("only doctors can view their schedule")
	}
	return s.repo.ListByDoctor(ctx, actor.ID, limit, offset)
}

// SetStatus records the doctor's decision on a pending appointment. Only the
// doctor the appointment was booked with may decide it. Repeating the same
// decision is a no-op; changing a decided appointment is rejected.
func (s *Service) SetStatus(ctx context.Context, actor auth.Actor, id uuid.UUID, status Status) (*Appointment, error) {
	if !status.Decided() {
		return nil, apperr.Validation("status must be %q or %q", StatusApproved, StatusRejected)
	}

	a, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if a.Status == status {
		return a, nil
	}
	if a.Status != StatusPending {
		return nil, apperr.Validation("appointment already %s", strings.ToLower(string(a.Status)))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status

	// Decision notifications are best-effort; the decision itself stands
	// even when delivery fails.
	tpl := notification.TemplateAppointmentApproved
	if status == StatusRejected {
		tpl = notification.TemplateAppointmentRejected
	}
	if err := s.notify(ctx, a, tpl); err != nil {
		s.logger.Warn().Err(err).
			Str("appointment_id", id.String()).
			Msg("decision notification failed")
	}

	s.logger.Info().
		Str("appointment_id", id.String()).
		Str("status", string(status)).
		Msg("appointment status updated")
	return a, nil
}

// SendReminder marks a single appointment as reminded and emits the
// notification. Returns false without error when the reminder already went
// out.
func (s *Service) SendReminder(ctx context.Context, actor auth.Actor, id uuid.UUID) (bool, error) {
	a, err := s.owned(ctx, actor, id)
	if err != nil {
		return false, err
	}
	if a.ReminderSent {
		return false, nil
	}

	if err := s.notify(ctx, a, notification.TemplateAppointmentReminder); err != nil {
		return false, err
	}
	if err := s.repo.MarkReminded(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// owned loads an appointment and checks the acting doctor is the one it was
// booked with.
func (s *Service) owned(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Appointment, error) {
	if !actor.IsDoctor() {
		return nil, apperr.Authorization("only doctors can manage appointments")
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.DoctorID != actor.ID {
		return nil, apperr.Authorization("appointment belongs to another doctor")
	}
	return a, nil
}

// Notify emits a reminder notification for the appointment without touching
// its state. The batch reminder scan uses this.
func (s *Service) Notify(ctx context.Context, a *Appointment) error {
	return s.notify(ctx, a, notification.TemplateAppointmentReminder)
}

func (s *Service) notify(ctx context.Context, a *Appointment, templateID string) error {
	patient, err := s.users.GetByID(ctx, a.PatientID)
	if err != nil {
		return err
	}
	doctor, err := s.users.GetByID(ctx, a.DoctorID)
	if err != nil {
		return err
	}
	_, err = s.notifier.SendFromTemplate(ctx, templateID, map[string]string{
		"patient_name": patient.Username,
		"doctor_name":  doctor.Username,
		"date":         a.Date,
		"time":         a.Time,
	}, patient.Email)
	return err
}
