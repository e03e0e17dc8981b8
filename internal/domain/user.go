package domain

import "time"

// User is the domain representation of a user account.
type User struct {
	ID      UserID
	Subject SubjectID

	DisplayName string
	Email       string
	// Bio is optional free-form profile text; nil means unset.
	Bio *string

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
