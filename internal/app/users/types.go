package users

import "github.com/oapi-codegen/nullable"

// RegisterInput carries the fields for creating a user account.
type RegisterInput struct {
	DisplayName string
	Email       string
	Bio         *string
}

// UpdateMyProfileInput is a partial update. Each field is tri-state:
// unspecified (omitted), explicitly null, or set to a value.
// DisplayName and Email cannot be null; Bio may be nulled to clear it.
type UpdateMyProfileInput struct {
	DisplayName nullable.Nullable[string]
	Email       nullable.Nullable[string]
	Bio         nullable.Nullable[string]
}
