// Package auth implements the login gate shown before the chat.
package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Rejection reasons shown on the login screen
const (
	ReasonMissingFields      = "Please enter both username and password."
	ReasonInvalidCredentials = "Invalid username or password."
)

// Authenticator modes
const (
	ModeMock   = "mock"
	ModeStatic = "static"
)

var validate = validator.New()

// Credentials are the values entered on the login screen
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Validate checks that both fields were filled in
func (c Credentials) Validate() error {
	return validate.Struct(c)
}

// Status is the outcome of a login attempt
type Status int

const (
	StatusRejected Status = iota
	StatusAuthenticated
)

func (s Status) String() string {
	if s == StatusAuthenticated {
		return "authenticated"
	}
	return "rejected"
}

// Result is returned by Authenticator.Check
type Result struct {
	Status Status
	Reason string
}

// Authenticated reports whether the attempt succeeded
func (r Result) Authenticated() bool {
	return r.Status == StatusAuthenticated
}

// Accepted returns a successful Result
func Accepted() Result {
	return Result{Status: StatusAuthenticated}
}

// Rejected returns a failed Result with reason
func Rejected(reason string) Result {
	return Result{Status: StatusRejected, Reason: reason}
}

// Authenticator decides whether credentials may open a session
type Authenticator interface {
	Check(ctx context.Context, creds Credentials) Result
}

// MockAuthenticator accepts any non-empty username and password
type MockAuthenticator struct{}

func (MockAuthenticator) Check(_ context.Context, creds Credentials) Result {
	if err := creds.Validate(); err != nil {
		return Rejected(ReasonMissingFields)
	}
	return Accepted()
}

// StaticAuthenticator checks credentials against argon2id hashes
type StaticAuthenticator struct {
	users map[string]string
}

// NewStaticAuthenticator creates an authenticator for username to hash pairs
func NewStaticAuthenticator(users map[string]string) *StaticAuthenticator {
	copied := make(map[string]string, len(users))
	for name, hash := range users {
		copied[name] = hash
	}
	return &StaticAuthenticator{users: copied}
}

type usersFile struct {
	Users map[string]string `yaml:"users"`
}

// LoadUsersFile reads a YAML file of the form:
//
//	users:
//	  alice: $argon2id$v=19$...
func LoadUsersFile(path string) (*StaticAuthenticator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var f usersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("users file %s defines no users", path)
	}
	for name, hash := range f.Users {
		if !strings.HasPrefix(hash, "$argon2id$") {
			return nil, fmt.Errorf("user %q: hash is not argon2id", name)
		}
	}
	return NewStaticAuthenticator(f.Users), nil
}

func (a *StaticAuthenticator) Check(_ context.Context, creds Credentials) Result {
	if err := creds.Validate(); err != nil {
		return Rejected(ReasonMissingFields)
	}

	hash, ok := a.users[creds.Username]
	if !ok {
		return Rejected(ReasonInvalidCredentials)
	}

	match, err := ComparePassword(creds.Password, hash)
	if err != nil || !match {
		return Rejected(ReasonInvalidCredentials)
	}
	return Accepted()
}

// NewAuthenticator builds the authenticator for mode
func NewAuthenticator(mode, usersFile string) (Authenticator, error) {
	switch mode {
	case "", ModeMock:
		return MockAuthenticator{}, nil
	case ModeStatic:
		if usersFile == "" {
			return nil, fmt.Errorf("auth mode %q requires a users file", ModeStatic)
		}
		return LoadUsersFile(usersFile)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", mode)
	}
}
