package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Status of an appointment request. Every appointment starts Pending and is
// moved exactly once by the doctor it was booked with.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Decided reports whether s is a terminal doctor decision.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

// DateLayout and TimeLayout are the wire formats for the scheduled slot.
// They are stored as entered; the reminder scan parses them together.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment is a booking request from a patient to a doctor. Date and Time
// are kept as the text the patient submitted.
type Appointment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID     uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Date         string    `db:"date" json:"date"`
	Time         string    `db:"time" json:"time"`
	Reason       string    `db:"reason" json:"reason"`
	Status       Status    `db:"status" json:"status"`
	ReminderSent bool      `db:"reminder_sent" json:"reminder_sent"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduledAt combines the stored date and time in the given location.
// It fails on rows whose text does not parse.
func (a *Appointment) ScheduledAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, loc)
}
