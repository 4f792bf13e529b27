package user

import (
	"context"
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == domain.NormalizeEmail(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(f.users, id)
	return user, nil
}

func TestListAll_EmptyStoreIsNotFound(t *testing.T) {
	uc := New(newFakeUserRepo(), nil, nil)

	_, err := uc.ListAll(context.Background())
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("expected not-found for empty store, got %v", err)
	}
}

func TestListAll_ReturnsEveryUser(t *testing.T) {
	repo := newFakeUserRepo(
		&domain.User{ID: "u1", Email: "a@x.io"},
		&domain.User{ID: "u2", Email: "b@x.io"},
	)
	uc := New(repo, nil, nil)

	users, err := uc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestUpdate_AppliesOnlyProvidedFields(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{
		ID:        "u1",
		Email:     "old@x.io",
		FirstName: "Old",
		LastName:  "Name",
		Address:   "1 Main St",
	})
	uc := New(repo, nil, nil)

	first := "  New  "
	updated, err := uc.Update(context.Background(), "u1", UpdateInput{FirstName: &first})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FirstName != "New" {
		t.Fatalf("first name not applied: %q", updated.FirstName)
	}
	if updated.Email != "old@x.io" || updated.LastName != "Name" || updated.Address != "1 Main St" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUpdate_NormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: "u1", Email: "old@x.io"})
	uc := New(repo, nil, nil)

	email := " NEW@X.IO "
	updated, err := uc.Update(context.Background(), "u1", UpdateInput{Email: &email})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Email != "new@x.io" {
		t.Fatalf("email not normalized: %q", updated.Email)
	}
}

func TestUpdate_UnknownUserIsNotFound(t *testing.T) {
	uc := New(newFakeUserRepo(), nil, nil)

	first := "x"
	_, err := uc.Update(context.Background(), "ghost", UpdateInput{FirstName: &first})
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDelete_ReturnsRemovedRecord(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: "u1", Email: "a@x.io"})
	uc := New(repo, nil, nil)

	deleted, err := uc.Delete(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.ID != "u1" {
		t.Fatalf("wrong record returned: %+v", deleted)
	}
	if _, err := repo.GetByID(context.Background(), "u1"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("user still present after delete")
	}
}
