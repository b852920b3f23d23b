package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/tokhel/ink/internal/config"
)

// Service verifies the configured administrator credential.
type Service struct {
	cfg config.Auth
}

func NewService(cfg config.Auth) *Service {
	return &Service{cfg: cfg}
}

// Enabled reports whether an admin credential is configured at all. With no
// credential the admin panel stays locked.
func (s *Service) Enabled() bool {
	return s.cfg.AdminEmail != "" && s.cfg.AdminPasswordHash != ""
}

// Authenticate checks the email/password pair against the configured admin
// credential. It returns ErrInvalidCredentials for any mismatch; the caller
// translates that into the user-facing message.
func (s *Service) Authenticate(email, password string) error {
	if !s.Enabled() {
		return ErrInvalidCredentials
	}

	email = strings.TrimSpace(strings.ToLower(email))
	want := strings.TrimSpace(strings.ToLower(s.cfg.AdminEmail))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(want)) == 1

	// Always run the bcrypt comparison so a wrong email costs the same as a
	// wrong password.
	passwordErr := CheckPassword(password, s.cfg.AdminPasswordHash)

	if !emailOK || passwordErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
