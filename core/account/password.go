package account

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

// Stored hashes are self-describing: "pbkdf2_sha256$<iterations>$<salt>$<key>"
// (salt and key base64-encoded). Verification reads the parameters back from
// the stored value, so iteration counts can be raised without migrating
// existing rows.
const (
	pbkdf2SHA256 = "pbkdf2_sha256"

	hashIterations = 150000
	saltLength     = 16
	keyLength      = 32
)

var errMalformedHash = errors.New("malformed password hash")

// MakePasswordHash derives an encoded PBKDF2-HMAC-SHA256 hash of pwd with a
// fresh random salt.
func MakePasswordHash(pwd string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "generating salt")
	}
	key := pbkdf2.Key([]byte(pwd), salt, hashIterations, keyLength, sha256.New)
	return fmt.Sprintf(
		"%s$%d$%s$%s",
		pbkdf2SHA256,
		hashIterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// CheckPasswordHash recomputes encoded's derived key from pwd and compares in
// constant time. Unknown algorithms and malformed values fail verification.
func CheckPasswordHash(encoded, pwd string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != pbkdf2SHA256 {
		return errMalformedHash
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return errMalformedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return errMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return errMalformedHash
	}

	computed := pbkdf2.Key([]byte(pwd), salt, iterations, len(key), sha256.New)
	if subtle.ConstantTimeCompare(computed, key) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}
