package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong login or password")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")

	ErrNotCapsuleOwner      = errors.New("requester is not the capsule owner")
	ErrCapsuleIsSealed      = errors.New("capsule is sealed")
	ErrTooManyConflicts     = errors.New("capsule was modified concurrently too many times")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrUploadTooLarge       = errors.New("upload is too large")
	ErrEmptyUpload          = errors.New("upload is empty")
	ErrMediaUploadFailed    = errors.New("media upload failed")
)
