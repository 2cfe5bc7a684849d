package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is a var so tests can use bcrypt.MinCost.
var bcryptCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches hash. A malformed hash
// counts as a mismatch.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UseMinCost lowers the bcrypt cost; call it from tests only.
func UseMinCost() {
	bcryptCost = bcrypt.MinCost
}
