package utils

import (
  "fmt"

  "golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
  hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    return "", fmt.Errorf("failed to hash password: %w", err)
  }
  return string(hashed), nil
}

// CheckPassword compares a stored bcrypt hash against a candidate
// password; the comparison is constant-time inside bcrypt.
func CheckPassword(hash, password string) bool {
  return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
