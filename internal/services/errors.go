// Common service-level error values, returned by service methods and checked
// by handlers with errors.Is. Translation into HTTP responses happens in the
// error middleware.
package services

import "power-vend-api/internal/apperrors"

var (
	// ErrTransactionNotFound indicates no transaction matches the given id
	// or bank reference.
	ErrTransactionNotFound = apperrors.New(apperrors.NotFound, "Transaction not found")

	// ErrBankRefInUse indicates the bank reference is already attached to a
	// transaction; a duplicate indicates replay.
	ErrBankRefInUse = apperrors.New(apperrors.Conflict, "Transaction reference has been used before")

	// ErrUserNotFound indicates no user matches the given id or email.
	ErrUserNotFound = apperrors.New(apperrors.NotFound, "User not found")

	// ErrMeterNotFound indicates no meter matches the given meter number.
	ErrMeterNotFound = apperrors.New(apperrors.NotFound, "Meter not found")

	// ErrPartnerNotFound indicates no partner matches the given id or email.
	ErrPartnerNotFound = apperrors.New(apperrors.NotFound, "Partner not found")

	// ErrPartnerExists indicates a signup with an email that is taken.
	ErrPartnerExists = apperrors.New(apperrors.Conflict, "Partner with this email already exists")

	// ErrInvalidToken indicates a bearer token that failed signature, type,
	// or cache verification.
	ErrInvalidToken = apperrors.New(apperrors.Unauthenticated, "Invalid authentication")

	// ErrInvalidAPIKey indicates an API key that could not be decrypted or
	// decoded against the partner secret.
	ErrInvalidAPIKey = apperrors.New(apperrors.Unauthenticated, "Invalid API key")

	// ErrInvalidAPISecret indicates no cached secret exists for the
	// presented api-secret header.
	ErrInvalidAPISecret = apperrors.New(apperrors.Unauthenticated, "Invalid API secret")
)
