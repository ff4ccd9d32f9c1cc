package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Record errors
var (
	ErrReviewerNotFound     = errors.New("reviewer not found")
	ErrOfficeRecordNotFound = errors.New("office record not found")
	ErrInvalidCircleType    = errors.New("invalid circle type")
	ErrInvalidRecordKind    = errors.New("invalid record kind")
)

// Settlement errors
var (
	ErrInvalidSettlementAmount = errors.New("settlement amount must be greater than zero")
	ErrInvalidEntityType       = errors.New("invalid entity type")
)
