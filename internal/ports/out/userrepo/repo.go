package userrepo

import (
	"context"
	"time"

	"github.com/oakmount/accounts-api/internal/domain"
)

// User is the persistence shape used by the user repository.
// It's an internal record, not an HTTP DTO.
type User struct {
	ID      domain.UserID
	Subject domain.SubjectID

	// DisplayName is the user's preferred display name.
	DisplayName string
	// Email is stored on the account record.
	Email string
	// Bio is optional profile text; nil means unset.
	Bio *string

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted users.
//
// List should return results ordered by DisplayName ascending to keep
// behavior deterministic.
type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error

	GetByID(ctx context.Context, id domain.UserID) (User, error)
	GetBySubject(ctx context.Context, subject domain.SubjectID) (User, error)

	List(ctx context.Context, includeInactive bool) ([]User, error)
}
