// Package mockstorage provides a testify-based mock implementation
// of the internal storage interfaces used by the service layer.
// It is used for unit testing handlers and services by simulating
// storage behavior, including failure paths the in-memory backend
// cannot produce.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/biodraft/internal/biography"
	"github.com/patric-chuzhbe/biodraft/internal/user"
)

// StorageMock is a testify mock that implements all interfaces
// used by the service for storage operations.
type StorageMock struct {
	mock.Mock
}

// InsertUser mocks storing a new user.
func (m *StorageMock) InsertUser(ctx context.Context, usr user.User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

// FindUserByID mocks the user point lookup.
func (m *StorageMock) FindUserByID(ctx context.Context, id string) (user.User, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Bool(1), args.Error(2)
}

// IsUserExists mocks the referential existence check.
func (m *StorageMock) IsUserExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// GetNumberOfUsers mocks the user counter.
func (m *StorageMock) GetNumberOfUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// InsertBiography mocks storing a new biography.
func (m *StorageMock) InsertBiography(ctx context.Context, bio biography.Biography) error {
	args := m.Called(ctx, bio)
	return args.Error(0)
}

// FindBiographyByID mocks the biography point lookup.
func (m *StorageMock) FindBiographyByID(ctx context.Context, id string) (biography.Biography, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(biography.Biography), args.Bool(1), args.Error(2)
}

// UpdateBiography mocks the patch-based mutation. When the configured
// return error is nil, the patch is applied to the configured biography so
// tests can assert on the patched copy.
func (m *StorageMock) UpdateBiography(
	ctx context.Context,
	id string,
	patch func(*biography.Biography),
) (biography.Biography, error) {
	args := m.Called(ctx, id, patch)

	bio := args.Get(0).(biography.Biography)
	if args.Error(1) == nil && patch != nil {
		patch(&bio)
	}

	return bio, args.Error(1)
}

// FindBiographies mocks the predicate scan. The configured result is
// filtered through keep so tests keep the predicate semantics.
func (m *StorageMock) FindBiographies(
	ctx context.Context,
	keep func(biography.Biography) bool,
) ([]biography.Biography, error) {
	args := m.Called(ctx, keep)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	stored := args.Get(0).([]biography.Biography)

	result := []biography.Biography{}
	for _, bio := range stored {
		if keep == nil || keep(bio) {
			result = append(result, bio)
		}
	}

	return result, nil
}

// GetNumberOfBiographies mocks the biography counter.
func (m *StorageMock) GetNumberOfBiographies(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Ping mocks the health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing storage resources.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
