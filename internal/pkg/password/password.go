package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is tuned so a single hash takes on the order of 100ms on current
// server hardware. Raising it slows brute-force attacks at the price of login
// latency.
const hashCost = 12

const legacySeparator = "."

// Hash produces a bcrypt hash. New credentials are never written in the
// legacy format.
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify checks supplied against a stored hash in either supported format.
// Stored values with a bcrypt signature prefix are verified with bcrypt;
// anything else is treated as the legacy "hexdigest.salt" format. A stored
// value that parses as neither fails closed.
func Verify(supplied, stored string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return verifyLegacy(supplied, stored)
}

func verifyLegacy(supplied, stored string) bool {
	digest, salt, found := strings.Cut(stored, legacySeparator)
	if !found {
		return false
	}

	want, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}

	sum := sha256.Sum256([]byte(supplied + salt))
	return subtle.ConstantTimeCompare(want, sum[:]) == 1
}
