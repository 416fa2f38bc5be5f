package service

import (
	"context"

	"github.com/MKhiriev/golden-glimpses/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// CapsuleService manages capsule records. Every mutating call takes the
// verified requester id and checks it against the capsule owner.
type CapsuleService interface {
	Create(ctx context.Context, in models.CreateCapsuleInput) (models.Capsule, error)

	// Get returns a capsule for owners, and public capsules for anyone.
	// Private capsules of other users are reported as not found.
	Get(ctx context.Context, capsuleID, requesterID string) (models.CapsuleView, error)

	// AddMedia appends items to an unsealed capsule. URLs already present
	// are skipped.
	AddMedia(ctx context.Context, capsuleID, requesterID string, items ...models.MediaItem) (models.Capsule, error)

	// AttachUpload stores the upload on the media host and appends it.
	AttachUpload(ctx context.Context, capsuleID, requesterID string, upload models.Upload) (models.Capsule, error)

	Seal(ctx context.Context, capsuleID, requesterID string) (models.Capsule, error)
	Delete(ctx context.Context, capsuleID, requesterID string) error

	ListByOwner(ctx context.Context, ownerID string) ([]models.CapsuleView, error)
	ListPublic(ctx context.Context, query models.ExploreQuery) (models.CapsulePage, error)
}

type AuthService interface {
	RegisterUser(ctx context.Context, in models.RegisterInput) (models.User, error)
	Login(ctx context.Context, credentials models.Credentials) (models.TokenPair, error)

	// IssueTokens creates a fresh access and refresh token pair for user.
	IssueTokens(ctx context.Context, user models.User) (models.TokenPair, error)

	// Refresh rotates refreshToken: it is revoked and a new pair is issued.
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)

	// Logout revokes refreshToken. Unknown tokens are ignored.
	Logout(ctx context.Context, refreshToken string) error

	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// CleanupExpiredTokens removes expired refresh tokens and returns how
	// many were removed.
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

type MediaService interface {
	// Upload stores the bytes of upload for ownerID on the media host.
	Upload(ctx context.Context, ownerID string, upload models.Upload) (models.UploadedMedia, error)

	// Remove deletes a previously uploaded object.
	Remove(ctx context.Context, publicID string) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// IDGenerator produces identifiers for new records and objects.
type IDGenerator interface {
	Generate() string
}
