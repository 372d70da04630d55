package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed   = errors.New("validation failed")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrInvalidCategory    = errors.New("invalid category code")
	ErrInvalidManualValue = errors.New("manual value is not a valid decimal")

	// Conflicts
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserUsernameConflict = errors.New("username is already in use")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrModeratorOnly          = errors.New("only moderators can perform this action")

	// Entity-specific not-found errors
	ErrUserNotFound     = errors.New("user not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrKitNotFound      = errors.New("kit not found")
	ErrOwnedKitNotFound = errors.New("owned kit not found")
)
