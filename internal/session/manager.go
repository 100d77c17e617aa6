// Package session implements the admin capability gate. The token is built
// and checked entirely client-side against a configured credential pair, so
// this is a UI gate only, NOT an access-control boundary: the backend never
// verifies it. See DESIGN.md for the open risk.
package session

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// ErrInvalidSession covers every way a stored token can be bad: garbage,
// wrong signature, wrong role, expired. Callers fail safe to logged-out and
// never surface this to the user.
var ErrInvalidSession = errors.New("invalid session token")

// Claims is the session token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and validates session tokens. Validation results are
// memoized per token string; an entry is dropped once its expiry passes.
type Manager struct {
	secret   []byte
	username string
	password string
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]*Claims
}

func NewManager(secret, username, password string, ttl time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		username: username,
		password: password,
		ttl:      ttl,
		now:      time.Now,
		cache:    make(map[string]*Claims),
	}
}

// CachedSessions reports how many validated tokens are memoized.
func (m *Manager) CachedSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cache)
}

// Login checks the credential pair in constant time and issues a token on
// success. Failure returns ErrInvalidSession with no further detail.
func (m *Manager) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidSession
	}
	return m.Issue()
}

// Issue builds a signed admin token expiring after the configured TTL.
func (m *Manager) Issue() (string, error) {
	now := m.now()
	claims := &Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate returns the claims iff the signature checks out, the role claim
// is admin and the expiry is still in the future. Any other outcome is
// ErrInvalidSession.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	now := m.now()

	m.mu.Lock()
	if claims, ok := m.cache[tokenString]; ok {
		if claims.ExpiresAt != nil && now.Before(claims.ExpiresAt.Time) {
			m.mu.Unlock()
			return claims, nil
		}
		delete(m.cache, tokenString)
	}
	m.mu.Unlock()

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, ErrInvalidSession
	}

	if claims.Role != RoleAdmin {
		return nil, ErrInvalidSession
	}
	if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrInvalidSession
	}

	m.mu.Lock()
	m.cache[tokenString] = claims
	m.mu.Unlock()
	return claims, nil
}
