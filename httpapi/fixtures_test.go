package httpapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hugecapital/auth"
	"hugecapital/lender"
)

// noopStore backs a coordinator with an empty dataset and echoes
// inserted rows back, the way a RETURNING * insert would.
type noopStore struct{}

func (noopStore) Select(ctx context.Context, category lender.Category) ([]map[string]any, error) {
	return nil, nil
}

func (noopStore) Insert(ctx context.Context, category lender.Category, row map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out, nil
}

func (noopStore) UpdateByID(ctx context.Context, category lender.Category, id string, fields map[string]any) (map[string]any, error) {
	return nil, lender.ErrNotFound
}

type fakeUserRepo struct {
	usersByEmail map[string]auth.User
	usersByID    map[string]auth.User
	nextID       int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usersByEmail: make(map[string]auth.User),
		usersByID:    make(map[string]auth.User),
		nextID:       1,
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, params auth.CreateUserParams) (auth.User, error) {
	if _, exists := f.usersByEmail[strings.ToLower(params.Email)]; exists {
		return auth.User{}, auth.ErrDuplicateEmail
	}

	role := params.Role
	if role == "" {
		role = auth.RoleMember
	}
	user := auth.User{
		ID:           fmt.Sprintf("user-%d", f.nextID),
		Email:        params.Email,
		FullName:     params.FullName,
		PasswordHash: params.PasswordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.nextID++
	f.usersByEmail[strings.ToLower(user.Email)] = user
	f.usersByID[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	user, ok := f.usersByEmail[strings.ToLower(email)]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID string) (auth.User, error) {
	user, ok := f.usersByID[userID]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return user, nil
}
