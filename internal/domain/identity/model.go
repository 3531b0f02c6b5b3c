package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies a user. It is fixed at registration and never changes.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Valid reports whether the role is one of the two known values.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// User maps to the users table. Patients and doctors share the table; the
// specialization column is meaningful only for doctors.
type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           Role      `db:"role" json:"role"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// IsDoctor reports whether the user holds the doctor role.
func (u *User) IsDoctor() bool { return u.Role == RoleDoctor }
