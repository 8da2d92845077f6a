package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/core/port"
	"github.com/RaoufAlaadin/MedicaRental/internal/infra/security"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the email or password is incorrect.
	// The same error covers both cases so responses cannot be used to probe
	// which emails are registered.
	ErrInvalidCredentials = errors.New("email or password is not correct")
	// ErrAccountLocked indicates the account is blocked until its lockout end.
	ErrAccountLocked = errors.New("account is blocked")
	// ErrAlreadyBlocked indicates a block was requested for an already blocked account.
	ErrAlreadyBlocked = errors.New("account already blocked")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUpdateFailed indicates a lockout state change could not be persisted.
	ErrUpdateFailed = errors.New("account update failed")
	// ErrDeleteFailed indicates the user row could not be removed.
	ErrDeleteFailed = errors.New("account delete failed")
	// ErrInvalidRefreshToken indicates the presented refresh token is unknown or revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrExpiredRefreshToken indicates the presented refresh token has expired.
	ErrExpiredRefreshToken = errors.New("refresh token expired")
	// ErrInvalidAccessToken indicates the access token is malformed or its signature is wrong.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the access token has expired.
	ErrExpiredAccessToken = errors.New("access token expired")
)

// TokenBundle is the credential set returned by login and refresh.
type TokenBundle struct {
	SessionToken     string
	SessionExpiresOn time.Time
	RefreshToken     string
	RefreshExpiresOn time.Time
	Role             string
	User             domain.User
}

// RegisterInput carries the fields collected at sign-up.
type RegisterInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Phone        *string
	ProfileImage *string
	Role         string
}

// AccountService coordinates registration, login, lockout, and token rotation.
type AccountService struct {
	users     port.UserRepository
	tokens    port.TokenRepository
	issuer    *security.TokenIssuer
	validator *security.PasswordValidator
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(
	users port.UserRepository,
	tokens port.TokenRepository,
	issuer *security.TokenIssuer,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	logger *zap.Logger,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AccountService{
		users:     users,
		tokens:    tokens,
		issuer:    issuer,
		validator: validator,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

// Login validates credentials and returns a session token plus the user's
// refresh token. An active refresh token is reused verbatim; a new one is
// minted only when none exists.
func (s *AccountService) Login(ctx context.Context, email, password string) (*TokenBundle, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if user.IsLockedOut(now) {
		return nil, ErrAccountLocked
	}

	role, err := s.roleOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	sessionToken, sessionExpiry, err := s.issuer.CreateSessionToken(*user, role)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	refresh, err := s.resolveRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return &TokenBundle{
		SessionToken:     sessionToken,
		SessionExpiresOn: sessionExpiry,
		RefreshToken:     refresh.Token,
		RefreshExpiresOn: refresh.ExpiresOn,
		Role:             role,
		User:             sanitized,
	}, nil
}

// resolveRefreshToken returns the user's active token, minting and persisting
// a new one when none exists. Two concurrent logins can race the find and
// both mint; the later token simply supersedes the earlier on the next login.
func (s *AccountService) resolveRefreshToken(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	existing, err := s.tokens.GetActiveByUser(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	minted, err := s.issuer.NewRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("mint refresh token: %w", err)
	}
	if err := s.tokens.Create(ctx, minted); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &minted, nil
}

// Register validates the password, creates the user, and attaches the claim
// set in one batch. A failed insert stops before any claim is written; the
// store's error surfaces to the caller untouched so its constraint message
// reaches the response.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := s.validator.Validate(input.Password); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleClient
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		ProfileImage: input.ProfileImage,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	claims := []domain.UserClaim{
		{UserID: user.ID, Type: domain.ClaimTypeNameIdentifier, Value: user.ID},
		{UserID: user.ID, Type: domain.ClaimTypeEmail, Value: user.Email},
		{UserID: user.ID, Type: domain.ClaimTypeGivenName, Value: user.FirstName},
		{UserID: user.ID, Type: domain.ClaimTypeSurname, Value: user.LastName},
		{UserID: user.ID, Type: domain.ClaimTypeRole, Value: role},
	}
	if err := s.users.AddClaims(ctx, claims); err != nil {
		return nil, fmt.Errorf("attach claims: %w", err)
	}

	s.publish(func() error {
		return s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
			UserID:       user.ID,
			Email:        user.Email,
			Role:         role,
			RegisteredAt: user.CreatedAt,
		})
	})

	sanitized := user
	sanitized.PasswordHash = ""

	return &sanitized, nil
}

// BlockUser sets the account's lockout end, refusing when a block is already
// in force.
func (s *AccountService) BlockUser(ctx context.Context, userID string, endDate time.Time) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	now := s.now().UTC()
	if user.IsLockedOut(now) {
		return ErrAlreadyBlocked
	}

	if err := s.users.SetLockoutEnd(ctx, user.ID, &endDate); err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}

	s.publish(func() error {
		return s.events.PublishUserBlocked(ctx, domain.UserBlockedEvent{
			UserID:     user.ID,
			Email:      user.Email,
			LockoutEnd: endDate,
			BlockedAt:  now,
		})
	})

	return nil
}

// UnblockUser clears the lockout end for the account with the given email.
func (s *AccountService) UnblockUser(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.users.SetLockoutEnd(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}

	s.publish(func() error {
		return s.events.PublishUserUnblocked(ctx, domain.UserUnblockedEvent{
			UserID:      user.ID,
			Email:       user.Email,
			UnblockedAt: s.now().UTC(),
		})
	})

	return nil
}

// RefreshSession rotates the presented refresh token and issues a fresh
// session token. The old token is revoked before the replacement is stored.
func (s *AccountService) RefreshSession(ctx context.Context, token string) (*TokenBundle, error) {
	if token == "" {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	now := s.now().UTC()
	if stored.IsRevoked() {
		return nil, ErrInvalidRefreshToken
	}
	if stored.IsExpired(now) {
		return nil, ErrExpiredRefreshToken
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.IsLockedOut(now) {
		return nil, ErrAccountLocked
	}

	if err := s.tokens.Revoke(ctx, stored.ID, now); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	replacement, err := s.issuer.NewRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("mint refresh token: %w", err)
	}
	if err := s.tokens.Create(ctx, replacement); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	role, err := s.roleOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	sessionToken, sessionExpiry, err := s.issuer.CreateSessionToken(*user, role)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return &TokenBundle{
		SessionToken:     sessionToken,
		SessionExpiresOn: sessionExpiry,
		RefreshToken:     replacement.Token,
		RefreshExpiresOn: replacement.ExpiresOn,
		Role:             role,
		User:             sanitized,
	}, nil
}

// ParseAccessToken validates a session token and returns its claims.
func (s *AccountService) ParseAccessToken(token string) (*security.SessionClaims, error) {
	claims, err := s.issuer.ParseSessionToken(token)
	if err != nil {
		if errors.Is(err, security.ErrExpiredToken) {
			return nil, ErrExpiredAccessToken
		}
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}

// Delete removes the user row. Claims and tokens cascade at the store.
func (s *AccountService) Delete(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

func (s *AccountService) roleOf(ctx context.Context, userID string) (string, error) {
	claims, err := s.users.GetClaims(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("lookup claims: %w", err)
	}
	return domain.RoleOf(claims), nil
}

// publish sends an event best-effort; a bus outage never fails the request.
func (s *AccountService) publish(fn func() error) {
	if s.events == nil {
		return
	}
	if err := fn(); err != nil {
		s.logger.Warn("publish event failed", zap.Error(err))
	}
}
