package session

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/theirongolddev/energipro/internal/model"
)

// Mode selects between signing in and creating an account.
type Mode int

// Authentication modes.
const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Credentials is what the auth form submits.
//
// Authentication is local-only: nothing is checked against any account
// service. Validation only enforces the shape of the input, and a valid
// submission always signs in.
type Credentials struct {
	Mode     Mode
	Email    string
	Password string
	Name     string
}

// Validate checks c and returns a *ValidationError for the first problem.
func (c Credentials) Validate() error {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return invalid("email", "Please fill in every field")
	}
	if c.Password == "" {
		return invalid("password", "Please fill in every field")
	}
	if c.Mode == ModeRegister && strings.TrimSpace(c.Name) == "" {
		return invalid("name", "Please enter your name")
	}
	if !emailPattern.MatchString(email) {
		return invalid("email", "Please enter a valid email address")
	}
	if utf8.RuneCountInString(c.Password) < MinPasswordLength {
		return invalid("password", "Password must be at least 6 characters")
	}
	return nil
}

// Identity derives the session identity. Without an explicit name the
// display name is the email's local part.
func (c Credentials) Identity() model.Identity {
	email := strings.TrimSpace(c.Email)
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return model.Identity{Email: email, DisplayName: name}
}
