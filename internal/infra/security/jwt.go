package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
)

var (
	// ErrInvalidToken indicates the token is malformed or its signature failed validation.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrExpiredToken indicates the token elapsed its validity window.
	ErrExpiredToken = errors.New("jwt: token expired")
)

// SessionClaims augments registered claims with the user and role context the
// authorization layer needs.
type SessionClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Roles adapts the single role claim to the slice shape the role predicate expects.
func (c *SessionClaims) Roles() []string {
	if c.Role == "" {
		return nil
	}
	return []string{c.Role}
}

const defaultSessionTokenTTL = 15 * time.Minute

// TokenIssuer signs and validates session tokens with a process-wide
// symmetric key loaded once at startup.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	sessionTTL time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(secret, issuer string, sessionTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt: signing secret is required")
	}
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		issuer:     issuer,
		sessionTTL: sessionTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// WithClock injects a custom clock, primarily for testing.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	if now != nil {
		i.now = now
	}
	return i
}

// SessionTTL returns the configured session token lifetime.
func (i *TokenIssuer) SessionTTL() time.Duration {
	return i.sessionTTL
}

// CreateSessionToken signs a session token for the user. Expiry is a fixed
// forward offset from issuance time.
func (i *TokenIssuer) CreateSessionToken(user domain.User, role string) (string, time.Time, error) {
	if user.ID == "" {
		return "", time.Time{}, fmt.Errorf("jwt: user id is required")
	}

	now := i.now().UTC()
	expiresAt := now.Add(i.sessionTTL)

	claims := SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ParseSessionToken validates a signed session token and returns its claims.
func (i *TokenIssuer) ParseSessionToken(token string) (*SessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(i.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// NewRefreshToken mints an unguessable refresh token for the user. The raw
// token string is persisted so a later login can reuse it verbatim.
func (i *TokenIssuer) NewRefreshToken(userID string) (domain.RefreshToken, error) {
	raw, err := GenerateSecureToken(32)
	if err != nil {
		return domain.RefreshToken{}, fmt.Errorf("generate refresh token: %w", err)
	}

	now := i.now().UTC()
	return domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     raw,
		CreatedOn: now,
		ExpiresOn: now.Add(i.refreshTTL),
	}, nil
}
