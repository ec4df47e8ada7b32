package auth

import (
	"errors"
	"fmt"
	"strings"

	"el-escriba-api/internal/store"
)

var (
	ErrValidation     = errors.New("username and password are required")
	ErrUserNotFound   = errors.New("user not found")
	ErrBadCredentials = errors.New("wrong password")
)

// CredentialStore is the slice of the persistence layer the auth flow needs.
type CredentialStore interface {
	CreateUser(username, passwordHash string) (*store.User, error)
	GetUserByUsername(username string) (*store.User, error)
}

type Service struct {
	store CredentialStore
}

func NewService(cs CredentialStore) *Service {
	return &Service{store: cs}
}

// Register hashes the password and creates the credential record. Duplicate
// usernames surface as store.ErrDuplicateUsername via the database's unique
// constraint.
func (s *Service) Register(username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrValidation
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(username, hashed)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login re-validates the credentials against the stored hash. No token is
// minted; the caller owns its own notion of a signed-in session.
//
// UserNotFound and BadCredentials stay distinct in the response, a known
// information-disclosure trade-off kept deliberately rather than silently
// hardened.
//
// Inputs are trimmed the same way Register trims them, so a pair that
// registered round-trips here verbatim.
func (s *Service) Login(username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return user, nil
}
