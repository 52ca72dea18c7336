package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
)

// bcrypt ignores input past 72 bytes.
const bcryptMaxBytes = 72

// BcryptCost is exported so tests can lower it.
var BcryptCost = bcrypt.DefaultCost

// PasswordPolicy bounds the passwords accepted at signup. The minimum counts
// runes so accented passwords are not penalised; the maximum counts bytes
// because that is what bcrypt reads.
type PasswordPolicy struct {
	MinRunes int
	MaxBytes int
}

// DefaultPasswordPolicy is what the signup form enforces.
var DefaultPasswordPolicy = PasswordPolicy{MinRunes: 8, MaxBytes: bcryptMaxBytes}

// LengthError reports the bound a password broke. It matches
// ErrPasswordTooShort or ErrPasswordTooLong under errors.Is.
type LengthError struct {
	Limit   int
	TooLong bool
}

func (e *LengthError) Error() string {
	if e.TooLong {
		return fmt.Sprintf("password must be at most %d bytes", e.Limit)
	}
	return fmt.Sprintf("password must be at least %d characters", e.Limit)
}

func (e *LengthError) Is(target error) bool {
	if e.TooLong {
		return target == ErrPasswordTooLong
	}
	return target == ErrPasswordTooShort
}

// Check returns a *LengthError when password falls outside the policy.
func (p PasswordPolicy) Check(password string) error {
	if utf8.RuneCountInString(password) < p.MinRunes {
		return &LengthError{Limit: p.MinRunes}
	}
	maxBytes := p.MaxBytes
	if maxBytes <= 0 || maxBytes > bcryptMaxBytes {
		maxBytes = bcryptMaxBytes
	}
	if len(password) > maxBytes {
		return &LengthError{Limit: maxBytes, TooLong: true}
	}
	return nil
}

// ValidatePassword checks password against DefaultPasswordPolicy.
func ValidatePassword(password string) error {
	return DefaultPasswordPolicy.Check(password)
}

// HashPassword validates and bcrypt-hashes password.
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
