package domain

// SubjectID is the authenticated subject extracted from JWT claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the token issuer.
type SubjectID string

// UserID is an internal identifier for a user record.
type UserID string
