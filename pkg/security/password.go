package security

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/anamartins/controledoces-backend/pkg/config"
)

const specialCharset = `!@#$%^&*(),.?":{}|<>`

// HashPassword returns a bcrypt hash for the provided password.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword returns true when the password matches the stored hash.
func VerifyPassword(password, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

// ValidatePasswordStrength returns a user-facing message when the password is
// too weak, or "" when it is acceptable.
func ValidatePasswordStrength(password string) string {
	if len(password) < 6 {
		return "A senha deve ter pelo menos 6 caracteres"
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialCharset, r):
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return "A senha deve conter pelo menos uma letra maiúscula"
	case !hasLower:
		return "A senha deve conter pelo menos uma letra minúscula"
	case !hasDigit:
		return "A senha deve conter pelo menos um número"
	case !hasSpecial:
		return "A senha deve conter pelo menos um caractere especial"
	}
	return ""
}
