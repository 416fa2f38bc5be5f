package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/crypto"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/store"
	"github.com/MKhiriev/golden-glimpses/internal/utils"
	"github.com/MKhiriev/golden-glimpses/internal/validators"
	"github.com/MKhiriev/golden-glimpses/models"
)

const (
	tokenType        = "Bearer"
	refreshTokenSize = 32
)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, and the access
// and refresh token lifecycle.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokenRepository stores keyed hashes of issued refresh tokens.
	tokenRepository store.TokenRepository

	passwordHasher crypto.PasswordHasher
	validator      validators.Validator
	ids            IDGenerator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration

	// refreshHashKey keys the hash under which refresh tokens are stored.
	refreshHashKey string

	now func() time.Time

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService populated with security
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(
	userRepository store.UserRepository,
	tokenRepository store.TokenRepository,
	passwordHasher crypto.PasswordHasher,
	ids IDGenerator,
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	refreshHashKey := cfg.RefreshHashKey
	if refreshHashKey == "" {
		refreshHashKey = cfg.TokenSignKey
	}

	return &authService{
		userRepository:       userRepository,
		tokenRepository:      tokenRepository,
		passwordHasher:       passwordHasher,
		validator:            validators.NewUserValidator(),
		ids:                  ids,
		tokenSignKey:         cfg.TokenSignKey,
		tokenIssuer:          cfg.TokenIssuer,
		accessTokenDuration:  cfg.AccessTokenDuration,
		refreshTokenDuration: cfg.RefreshTokenDuration,
		refreshHashKey:       refreshHashKey,
		now:                  time.Now,
		logger:               logger,
	}
}

// RegisterUser creates a new user account.
//
// The login is trimmed and lower-cased, the name defaults to the login and
// the password is stored as an argon2id hash.
//
// Returns the persisted user or:
//   - ErrInvalidDataProvided wrapping the validator error.
//   - A wrapped storage error if the repository call fails (e.g. login already
//     taken, see store.ErrLoginAlreadyExists).
func (a *authService) RegisterUser(ctx context.Context, in models.RegisterInput) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, in); err != nil {
		log.Debug().Err(err).Str("func", "*authService.RegisterUser").Msg("invalid registration data")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	hash, err := a.passwordHasher.Hash(in.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.RegisterUser").Msg("error hashing password")
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	login := normalizeLogin(in.Login)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = login
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		UserID:       a.ids.Generate(),
		Login:        login,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    a.now().UTC(),
	})
	if err != nil {
		log.Err(err).Str("func", "*authService.RegisterUser").Str("login", login).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return user, nil
}

// Login authenticates an existing user and issues a token pair.
//
// An unknown login and a wrong password both yield ErrWrongPassword.
func (a *authService) Login(ctx context.Context, credentials models.Credentials) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, credentials); err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	login := normalizeLogin(credentials.Login)
	user, err := a.userRepository.FindUserByLogin(ctx, login)
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Debug().Str("func", "*authService.Login").Str("login", login).Msg("unknown login")
		return models.TokenPair{}, ErrWrongPassword
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Str("login", login).Msg("user search by login failed")
		return models.TokenPair{}, fmt.Errorf("user search by login failed: %w", err)
	}

	ok, err := a.passwordHasher.Verify(credentials.Password, user.PasswordHash)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Str("user_id", user.UserID).Msg("error verifying password")
		return models.TokenPair{}, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		log.Debug().Str("func", "*authService.Login").Str("user_id", user.UserID).Msg("wrong password")
		return models.TokenPair{}, ErrWrongPassword
	}

	return a.IssueTokens(ctx, user)
}

// IssueTokens signs an access token and stores a new refresh token.
func (a *authService) IssueTokens(ctx context.Context, user models.User) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	access, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.accessTokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "*authService.IssueTokens").Msg("error generating access token")
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	refresh, err := utils.RandomToken(refreshTokenSize)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	now := a.now().UTC()
	err = a.tokenRepository.SaveRefreshToken(ctx, models.RefreshToken{
		TokenHash: utils.HashString(refresh, a.refreshHashKey),
		UserID:    user.UserID,
		ExpiresAt: now.Add(a.refreshTokenDuration),
		CreatedAt: now,
	})
	if err != nil {
		log.Err(err).Str("func", "*authService.IssueTokens").Str("user_id", user.UserID).Msg("error saving refresh token")
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.TokenPair{
		AccessToken:  access.SignedString,
		RefreshToken: refresh,
		TokenType:    tokenType,
		ExpiresAt:    access.ExpiresAt.Time,
	}, nil
}

// Refresh revokes the presented refresh token and issues a new pair.
// Unknown, expired or orphaned tokens yield ErrTokenIsExpiredOrInvalid.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if refreshToken == "" {
		return models.TokenPair{}, ErrTokenIsExpiredOrInvalid
	}

	hash := utils.HashString(refreshToken, a.refreshHashKey)
	stored, err := a.tokenRepository.GetRefreshToken(ctx, hash)
	if errors.Is(err, store.ErrRefreshTokenNotFound) {
		return models.TokenPair{}, ErrTokenIsExpiredOrInvalid
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.Refresh").Msg("error reading refresh token")
		return models.TokenPair{}, fmt.Errorf("error reading refresh token: %w", err)
	}

	removed, err := a.tokenRepository.DeleteRefreshToken(ctx, hash)
	if err != nil {
		log.Err(err).Str("func", "*authService.Refresh").Msg("error revoking refresh token")
		return models.TokenPair{}, fmt.Errorf("error revoking refresh token: %w", err)
	}
	// a concurrent refresh with the same token got there first
	if !removed {
		log.Warn().Str("func", "*authService.Refresh").Str("user_id", stored.UserID).Msg("refresh token already rotated")
		return models.TokenPair{}, ErrTokenIsExpiredOrInvalid
	}

	if stored.IsExpired(a.now()) {
		log.Debug().Str("func", "*authService.Refresh").Str("user_id", stored.UserID).Msg("refresh token expired")
		return models.TokenPair{}, ErrTokenIsExpiredOrInvalid
	}

	user, err := a.userRepository.FindUserByID(ctx, stored.UserID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.TokenPair{}, ErrTokenIsExpiredOrInvalid
	}
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return a.IssueTokens(ctx, user)
}

func (a *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	if _, err := a.tokenRepository.DeleteRefreshToken(ctx, utils.HashString(refreshToken, a.refreshHashKey)); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*authService.Logout").Msg("error revoking refresh token")
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised
// to ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "*authService.ParseToken").Msg("rejecting access token")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

func (a *authService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	removed, err := a.tokenRepository.DeleteExpiredRefreshTokens(ctx, a.now())
	if err != nil {
		return 0, fmt.Errorf("error removing expired refresh tokens: %w", err)
	}
	return removed, nil
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}
