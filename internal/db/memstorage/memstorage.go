// Package memstorage provides the in-memory storage backend of the service.
// It keeps users, biographies, and sessions in three independent concurrent
// maps. All state is volatile and lives until the process exits.
package memstorage

import (
	"context"
	"time"

	"github.com/patric-chuzhbe/biodraft/internal/biography"
	"github.com/patric-chuzhbe/biodraft/internal/db/memstore"
	"github.com/patric-chuzhbe/biodraft/internal/session"
	"github.com/patric-chuzhbe/biodraft/internal/user"
)

// ErrNotFound is returned when a referenced entity id is absent.
var ErrNotFound = memstore.ErrNotFound

// Storage owns the three entity maps. Handlers and services never touch the
// maps directly; every mutation goes through a Storage method.
type Storage struct {
	users       *memstore.Store[user.User]
	biographies *memstore.Store[biography.Biography]

	// sessions is allocated for parity with the data model. Nothing writes
	// to it yet; a future auth layer will.
	sessions *memstore.Store[session.Session]
}

// New creates an empty Storage.
func New() (*Storage, error) {
	return &Storage{
		users:       memstore.New[user.User](),
		biographies: memstore.New[biography.Biography](),
		sessions:    memstore.New[session.Session](),
	}, nil
}

// InsertUser stores a new user. The caller supplies a fresh unique id.
func (s *Storage) InsertUser(ctx context.Context, usr user.User) error {
	return s.users.Insert(ctx, usr.ID, usr)
}

// FindUserByID returns a copy of the user stored under id.
func (s *Storage) FindUserByID(ctx context.Context, id string) (user.User, bool, error) {
	return s.users.Find(ctx, id)
}

// IsUserExists reports whether a user is stored under id. It backs the
// referential check performed before a biography is created.
func (s *Storage) IsUserExists(ctx context.Context, id string) (bool, error) {
	return s.users.Exists(ctx, id)
}

// GetNumberOfUsers returns the total user count.
func (s *Storage) GetNumberOfUsers(ctx context.Context) (int64, error) {
	return int64(s.users.Len()), nil
}

// InsertBiography stores a new biography. The caller supplies a fresh
// unique id and must have validated the owning user beforehand.
func (s *Storage) InsertBiography(ctx context.Context, bio biography.Biography) error {
	return s.biographies.Insert(ctx, bio.ID, bio)
}

// FindBiographyByID returns a copy of the biography stored under id.
func (s *Storage) FindBiographyByID(ctx context.Context, id string) (biography.Biography, bool, error) {
	return s.biographies.Find(ctx, id)
}

// UpdateBiography applies patch to the biography stored under id, refreshes
// its update timestamp, and returns the resulting copy. Returns ErrNotFound
// if the id is absent.
func (s *Storage) UpdateBiography(
	ctx context.Context,
	id string,
	patch func(*biography.Biography),
) (biography.Biography, error) {
	return s.biographies.Update(ctx, id, func(bio *biography.Biography) {
		patch(bio)
		bio.UpdatedAt = time.Now().UTC()
	})
}

// FindBiographies returns a snapshot copy of all biographies satisfying
// keep. Ordering is unspecified.
func (s *Storage) FindBiographies(
	ctx context.Context,
	keep func(biography.Biography) bool,
) ([]biography.Biography, error) {
	return s.biographies.Filter(ctx, keep)
}

// GetNumberOfBiographies returns the total biography count.
func (s *Storage) GetNumberOfBiographies(ctx context.Context) (int64, error) {
	return int64(s.biographies.Len()), nil
}

// Ping reports storage health. The in-memory backend is always healthy;
// the method exists so a persistent backend can slot in behind the same
// interface.
func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

// Close releases storage resources. Nothing to flush for the in-memory
// backend.
func (s *Storage) Close() error {
	return nil
}
