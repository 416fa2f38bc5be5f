package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same login already exists.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a user lookup matches nothing.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrCapsuleNotFound is returned when a capsule id matches nothing.
	ErrCapsuleNotFound = errors.New("capsule not found")

	// ErrCapsuleAlreadyExists is returned when a capsule id is reused.
	ErrCapsuleAlreadyExists = errors.New("capsule already exists")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the capsule was written by someone else since it was read.
	ErrVersionConflict = errors.New("capsule version conflict occurred")

	// ErrRefreshTokenNotFound is returned for unknown refresh token hashes.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	// ErrUnknownStorageDriver is returned by NewStorages for an unsupported
	// storage.driver value.
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when an operation fails before any domain logic
// can be applied.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to execute statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
	ErrEncodingMedia        = errors.New("failed to encode media list")
	ErrDecodingMedia        = errors.New("failed to decode media list")
	ErrExecutingMongoQuery  = errors.New("error executing mongo operation")
)
