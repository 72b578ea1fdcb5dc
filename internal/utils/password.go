package utils

import "golang.org/x/crypto/bcrypt"

// HashSecret returns the bcrypt hash of a union shared secret using the
// given cost.  Secrets are never stored in the clear.
func HashSecret(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifySecret compares a bcrypt hash with a candidate secret.  bcrypt's
// comparison is constant time, so login attempts leak nothing through
// timing.
func VerifySecret(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
