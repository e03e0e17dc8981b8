package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/oakmount/accounts-api/internal/apperror"
	"github.com/oakmount/accounts-api/internal/domain"
	clockport "github.com/oakmount/accounts-api/internal/ports/out/clock"
	"github.com/oakmount/accounts-api/internal/ports/out/userrepo"
)

type Service struct {
	repo userrepo.Repository
	clk  clockport.Clock

	newUserID func() domain.UserID
}

func NewService(repo userrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
	}
}

// Register creates a user account bound to the authenticated subject.
func (s *Service) Register(ctx context.Context, subject domain.SubjectID, in RegisterInput) (domain.User, error) {
	// Ensure no existing binding.
	if _, err := s.repo.GetBySubject(ctx, subject); err == nil {
		return domain.User{}, apperror.Conflict("A user account already exists for the authenticated subject.")
	} else if !errors.Is(err, userrepo.ErrNotFound) {
		return domain.User{}, err
	}

	displayName := domain.NormalizeHumanName(in.DisplayName)
	if displayName == "" {
		return domain.User{}, apperror.Validation("displayName must be non-empty")
	}
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return domain.User{}, apperror.Validation("invalid email")
	}
	if err := s.ensureEmailUnique(ctx, email, ""); err != nil {
		return domain.User{}, err
	}

	now := s.clk.Now()
	u := userrepo.User{
		ID:          s.newUserID(),
		Subject:     subject,
		DisplayName: displayName,
		Email:       email,
		Bio:         cloneStringPtr(in.Bio),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrSubjectAlreadyBound) {
			return domain.User{}, apperror.Conflict("A user account already exists for the authenticated subject.")
		}
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// GetUser looks up a user by ID.
func (s *Service) GetUser(ctx context.Context, id domain.UserID) (domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, apperror.NotFound("User not found")
		}
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// GetMyProfile returns the account bound to the authenticated subject.
func (s *Service) GetMyProfile(ctx context.Context, subject domain.SubjectID) (domain.User, error) {
	u, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, apperror.NotFound("No user account exists for the authenticated subject.")
		}
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// ListUsers returns users ordered by display name.
func (s *Service) ListUsers(ctx context.Context, includeInactive bool) ([]domain.User, error) {
	us, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(us))
	for _, u := range us {
		out = append(out, toDomain(u))
	}
	return out, nil
}

// UpdateMyProfile applies a partial update to the caller's account.
func (s *Service) UpdateMyProfile(ctx context.Context, subject domain.SubjectID, in UpdateMyProfileInput) (domain.User, error) {
	u, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, apperror.NotFound("No user account exists for the authenticated subject.")
		}
		return domain.User{}, err
	}

	if in.DisplayName.IsSpecified() {
		if in.DisplayName.IsNull() {
			return domain.User{}, apperror.Validation("displayName cannot be null")
		}
		displayName := domain.NormalizeHumanName(in.DisplayName.MustGet())
		if displayName == "" {
			return domain.User{}, apperror.Validation("displayName must be non-empty")
		}
		u.DisplayName = displayName
	}

	if in.Email.IsSpecified() {
		if in.Email.IsNull() {
			return domain.User{}, apperror.Validation("email cannot be null")
		}
		email := strings.TrimSpace(in.Email.MustGet())
		if err := validateEmail(email); err != nil {
			return domain.User{}, apperror.Validation("invalid email")
		}
		if err := s.ensureEmailUnique(ctx, email, string(u.ID)); err != nil {
			return domain.User{}, err
		}
		u.Email = email
	}

	if in.Bio.IsSpecified() {
		if in.Bio.IsNull() {
			u.Bio = nil
		} else {
			bio := strings.TrimSpace(in.Bio.MustGet())
			u.Bio = &bio
		}
	}

	u.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// ensureEmailUnique scans existing accounts for the email. The repositories
// have no email index, so uniqueness is enforced here at the app layer.
func (s *Service) ensureEmailUnique(ctx context.Context, email string, excludeID string) error {
	us, err := s.repo.List(ctx, true)
	if err != nil {
		return err
	}
	for _, u := range us {
		if string(u.ID) == excludeID {
			continue
		}
		if strings.EqualFold(u.Email, email) {
			return apperror.Conflict("email is already in use")
		}
	}
	return nil
}

func validateEmail(s string) error {
	if s == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return errors.New("must be a valid email address")
	}
	if addr.Address != s {
		return errors.New("must be a bare email address")
	}
	return nil
}

func toDomain(u userrepo.User) domain.User {
	return domain.User{
		ID:          u.ID,
		Subject:     u.Subject,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Bio:         cloneStringPtr(u.Bio),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
