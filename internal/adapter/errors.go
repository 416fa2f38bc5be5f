package adapter

import "errors"

var (
	ErrUnknownMediaHost = errors.New("unknown media host driver")
	ErrInvalidObjectKey = errors.New("invalid object key")
	ErrMediaHostConfig  = errors.New("invalid media host configuration")
	ErrUploadFailed     = errors.New("media upload failed")
	ErrDeleteFailed     = errors.New("media delete failed")
)

// Errors mapped from remote HTTP statuses.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("media host unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
)
