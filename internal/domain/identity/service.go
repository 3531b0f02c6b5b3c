package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/apperr"
)

// Service owns account lifecycle: registration, credential checks and
// the public doctor directory.
type Service struct {
	repo   UserRepository
	logger zerolog.Logger
}

func NewService(repo UserRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "identity").Logger()}
}

// RegisterInput carries a signup request. Specialization is required for
// doctors and rejected for patients.
type RegisterInput struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           Role   `json:"role"`
	Specialization string `json:"specialization,omitempty"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Specialization = strings.TrimSpace(in.Specialization)

	if in.Username == "" {
		return nil, apperr.Validation("username is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(in.Password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("role must be %q or %q", RolePatient, RoleDoctor)
	}
	if in.Role == RoleDoctor && in.Specialization == "" {
		return nil, apperr.Validation("specialization is required for doctors")
	}
	if in.Role == RolePatient && in.Specialization != "" {
		return nil, apperr.Validation("specialization is only allowed for doctors")
	}

	if existing, err := s.repo.GetByUsername(ctx, in.Username); err == nil && existing != nil {
		return nil, apperr.Validation("username %q is already taken", in.Username)
	} else if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}
	if existing, err := s.repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, apperr.Validation("email %q is already registered", in.Email)
	} else if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "hash password")
	}

	u := &User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if in.Role == RoleDoctor {
		spec := in.Specialization
		u.Specialization = &spec
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", u.ID.String()).Str("role", string(u.Role)).Msg("user registered")
	return u, nil
}

// Authenticate resolves the login identifier as a username first and an
// email second, then verifies the password. All failures collapse into a
// single credential error so the response does not leak which accounts
// exist.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperr.Auth("invalid credentials")
	}

	u, err := s.repo.GetByUsername(ctx, identifier)
	if apperr.IsKind(err, apperr.KindNotFound) {
		u, err = s.repo.GetByEmail(ctx, strings.ToLower(identifier))
	}
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil, apperr.Auth("invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, apperr.Auth("invalid credentials")
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListDoctors returns the bookable doctor directory, ordered by account
// creation time so the same page is stable across calls.
func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.ListDoctors(ctx, limit, offset)
}

// EnsureDemoDoctor seeds a single demo doctor account when the directory
// is empty, so a fresh environment has someone to book with.
func (s *Service) EnsureDemoDoctor(ctx context.Context) error {
	n, err := s.repo.CountDoctors(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.Register(ctx, RegisterInput{
		Username:       "Priya",
		Email:          "priya@clinic.local",
		Password:       "doctor123",
		Role:           RoleDoctor,
		Specialization: "Cardiologist",
	})
	if err != nil {
		return err
	}
	s.logger.Info().Msg("seeded demo doctor account")
	return nil
}
