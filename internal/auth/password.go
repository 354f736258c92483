package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares plain with the stored password of u. Hashed
// passwords go through bcrypt; legacy plain values are compared in
// constant time.
func CheckPassword(u domain.User, plain string) bool {
	if u.PasswordIsHashed() {
		err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain))
		return err == nil
	}
	if u.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(plain)) == 1
}
