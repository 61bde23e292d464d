/*
service.go - User registration and authentication

PURPOSE:
  Registration hashes the password with bcrypt and rejects duplicate emails.
  Authentication verifies the hash and issues an HS256 JWT whose subject is
  the user id; the API middleware verifies that token on statement routes.

SECURITY NOTES:
  - Wrong email and wrong password return the same error.
  - The bcrypt cost is the library default; raising it is a config change,
    not a schema change, since hashes embed their cost.

SEE ALSO:
  - api: Token verification middleware
*/
package users

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/finbook/ledger-engine/ledger"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service implements the user directory use cases.
type Service struct {
	store       Store
	tokenSecret []byte
	tokenTTL    time.Duration

	now func() time.Time
}

// NewService creates a user service. The secret signs session tokens;
// ttl bounds their lifetime.
func NewService(store Store, tokenSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		store:       store,
		tokenSecret: []byte(tokenSecret),
		tokenTTL:    tokenTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	existing, err := s.store.ByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.store.Save(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate verifies credentials and returns the user plus a signed token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.store.ByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("resolving email: %w", err)
	}
	if u == nil {
		return nil, "", ErrIncorrectCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrIncorrectCredentials
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) issueToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.tokenSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a bearer token and returns the subject user id.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.tokenSecret, nil
	})
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// =============================================================================
// LEDGER DIRECTORY ADAPTER
// =============================================================================

// Directory adapts a users.Store to the ledger's UserDirectory contract.
type Directory struct {
	Store Store
}

func (d Directory) FindByID(ctx context.Context, id ledger.UserID) (*ledger.User, error) {
	u, err := d.Store.ByID(ctx, string(id))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return &ledger.User{ID: ledger.UserID(u.ID), Name: u.Name}, nil
}

var _ ledger.UserDirectory = Directory{}
