// Package auth implements the login gate: a fixed credential table and signed
// session tokens.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCredentials is returned when a username/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials maps usernames to plaintext passwords.
type Credentials map[string]string

// DefaultCredentials is the built-in credential table.
func DefaultCredentials() Credentials {
	return Credentials{
		"admin":  "admin123",
		"viewer": "viewer123",
	}
}

// LoadCredentials reads a YAML mapping of username to password from path.
// An empty path returns the built-in table.
func LoadCredentials(path string) (Credentials, error) {
	if path == "" {
		return DefaultCredentials(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if len(creds) == 0 {
		return nil, fmt.Errorf("credentials file %s defines no users", path)
	}
	return creds, nil
}

// Check compares password against the stored password for username.
func (c Credentials) Check(username, password string) error {
	stored, ok := c[username]
	if !ok || username == "" {
		return ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// Has reports whether username is in the table.
func (c Credentials) Has(username string) bool {
	_, ok := c[username]
	return ok
}
