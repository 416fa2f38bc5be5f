// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements server-side password hashing.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned by Verify when the stored hash cannot be
// decoded.
var ErrMalformedHash = errors.New("malformed password hash")

const (
	saltLength = 16
	hashPrefix = "argon2id"
)

// argon2Hasher is the private implementation of [PasswordHasher]. Hashes
// are encoded as
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>
//
// with salt and key in unpadded standard base64.
type argon2Hasher struct {
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewPasswordHasher returns a [PasswordHasher] with the OWASP argon2id
// baseline: 1 iteration, 64 MiB, 4 threads, 32-byte key.
func NewPasswordHasher() PasswordHasher {
	return &argon2Hasher{
		argonTime:    1,
		argonMemory:  64 * 1024,
		argonThreads: 4,
		argonKeyLen:  32,
	}
}

// newTestPasswordHasher keeps unit tests fast.
func newTestPasswordHasher() *argon2Hasher {
	return &argon2Hasher{
		argonTime:    1,
		argonMemory:  8 * 1024,
		argonThreads: 1,
		argonKeyLen:  32,
	}
}

func (h *argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.argonTime, h.argonMemory, h.argonThreads, h.argonKeyLen)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		hashPrefix,
		argon2.Version,
		h.argonMemory,
		h.argonTime,
		h.argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *argon2Hasher) Verify(password, encoded string) (bool, error) {
	params, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, params.argonTime, params.argonMemory, params.argonThreads, uint32(len(key)))
	return subtle.ConstantTimeCompare(got, key) == 1, nil
}

func decodeHash(encoded string) (argon2Hasher, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != hashPrefix {
		return argon2Hasher{}, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return argon2Hasher{}, nil, nil, ErrMalformedHash
	}

	var params argon2Hasher
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.argonMemory, &params.argonTime, &params.argonThreads); err != nil {
		return argon2Hasher{}, nil, nil, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2Hasher{}, nil, nil, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return argon2Hasher{}, nil, nil, ErrMalformedHash
	}

	return params, salt, key, nil
}
