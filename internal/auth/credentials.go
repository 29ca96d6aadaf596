package auth

import (
	"crypto/subtle"

	apperrors "select-studio/pkg/errors"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the single photographer account, configured through the
// environment rather than a user table: this service has exactly one
// privileged principal.
type Credentials struct {
	email        string
	passwordHash string
}

func NewCredentials(email, passwordHash string) *Credentials {
	return &Credentials{
		email:        email,
		passwordHash: passwordHash,
	}
}

// Authenticate checks the email and password against the configured
// account. Both checks always run so response timing does not reveal
// which field was wrong.
func (c *Credentials) Authenticate(email, password string) error {
	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(c.email)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(c.passwordHash), []byte(password))

	if !emailMatch || passwordErr != nil {
		return apperrors.InvalidCredentials()
	}
	return nil
}

// Email returns the configured photographer address.
func (c *Credentials) Email() string {
	return c.email
}
