package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher derives and checks stored password hashes.
//
// Encoded hashes are self-describing, so the tuning parameters can change
// without invalidating hashes produced earlier.
type PasswordHasher interface {
	// Hash returns the encoded argon2id hash of password with a fresh
	// random salt.
	Hash(password string) (string, error)

	// Verify reports whether password matches the encoded hash. A
	// malformed hash is an error, a mismatch is (false, nil).
	Verify(password, encoded string) (bool, error)
}
