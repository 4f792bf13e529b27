package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

const bcryptCost = 10

// RegisterInput carries the self-service registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Address   string
	Phone     string
}

type UseCase struct {
	users    repository.UserRepository
	denylist repository.TokenDenylist
	secret   []byte
	issuer   string
	ttl      time.Duration
	audit    usecase.AuditTrail
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	denylist repository.TokenDenylist,
	secret string,
	issuer string,
	ttl time.Duration,
	audit usecase.AuditTrail,
	logger *zap.Logger,
) *UseCase {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		denylist: denylist,
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		audit:    audit,
		logger:   logger,
	}
}

// Register creates a new account. The duplicate-email response carries no
// hint beyond the conflict itself, and the stored secret is a bcrypt hash.
func (uc *UseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrMissingCredentials
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Address:      strings.TrimSpace(input.Address),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: string(hash),
	}

	created, err := uc.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Record(created.ID, usecase.EntityAuth, usecase.ActionRegister, created.Email)
	}
	return created, nil
}

// Login verifies credentials and issues a signed session token. Unknown email
// and wrong password produce the same error so neither can be enumerated.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domain.ErrMissingCredentials
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := uc.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	if uc.audit != nil {
		uc.audit.Record(user.ID, usecase.EntityAuth, usecase.ActionLogin, user.Email)
	}
	return user, token, nil
}

// Logout denylists the presented token until its natural expiry.
func (uc *UseCase) Logout(ctx context.Context, identity domain.Identity) error {
	if uc.denylist == nil || identity.TokenID == "" {
		return nil
	}
	if err := uc.denylist.Revoke(ctx, identity.TokenID, identity.RemainingTTL(time.Now())); err != nil {
		return err
	}
	if uc.audit != nil {
		uc.audit.Record(identity.ID, usecase.EntityAuth, usecase.ActionLogout, "")
	}
	return nil
}

// TokenTTL exposes the configured session lifetime for cookie max-age.
func (uc *UseCase) TokenTTL() time.Duration {
	return uc.ttl
}

func (uc *UseCase) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":       user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(uc.ttl).Unix(),
		"iss":      uc.issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(uc.secret)
	if err != nil {
		uc.logger.Error("failed to sign session token", zap.Error(err))
		return "", err
	}
	return signed, nil
}
