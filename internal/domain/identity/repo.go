package identity

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ListDoctors returns doctors ordered by creation time then id, so the
	// candidate list shown to patients is deterministic.
	ListDoctors(ctx context.Context, limit, offset int) ([]*User, int, error)
	CountDoctors(ctx context.Context) (int, error)
}
