package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

// UpdateInput carries a partial self-service profile update.
type UpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Address   *string
	Phone     *string
}

type UseCase struct {
	users  repository.UserRepository
	audit  usecase.AuditTrail
	logger *zap.Logger
}

func New(users repository.UserRepository, audit usecase.AuditTrail, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		audit:  audit,
		logger: logger,
	}
}

// ListAll returns every registered user. Admin-only; the gate runs upstream.
func (uc *UseCase) ListAll(ctx context.Context) ([]domain.User, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrNoUsers
	}
	return users, nil
}

// Update applies the provided fields to the caller's own record.
func (uc *UseCase) Update(ctx context.Context, id string, input UpdateInput) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if email := domain.NormalizeEmail(*input.Email); email != "" {
			user.Email = email
		}
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Record(id, usecase.EntityUser, usecase.ActionUpdate, id)
	}
	return user, nil
}

// Delete removes the caller's own account and, through the storage cascade,
// every task it owns.
func (uc *UseCase) Delete(ctx context.Context, id string) (*domain.User, error) {
	deleted, err := uc.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if uc.audit != nil {
		uc.audit.Record(id, usecase.EntityUser, usecase.ActionDelete, id)
	}
	return deleted, nil
}
