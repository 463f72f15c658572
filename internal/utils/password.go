package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password for storage in users.
// password_hash.  A cost outside bcrypt's supported range falls back to
// the library default so a misconfigured BCRYPT_COST can neither weaken
// hashes nor stall registration.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison is constant time inside bcrypt.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
