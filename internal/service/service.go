// Package service implements the application operations of the biography
// writing assistant on top of the storage layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/biodraft/internal/biography"
	"github.com/patric-chuzhbe/biodraft/internal/db/memstore"
	"github.com/patric-chuzhbe/biodraft/internal/models"
	"github.com/patric-chuzhbe/biodraft/internal/user"
)

type usersKeeper interface {
	InsertUser(ctx context.Context, usr user.User) error

	FindUserByID(ctx context.Context, id string) (user.User, bool, error)

	IsUserExists(ctx context.Context, id string) (bool, error)

	GetNumberOfUsers(ctx context.Context) (int64, error)
}

type biographiesKeeper interface {
	InsertBiography(ctx context.Context, bio biography.Biography) error

	FindBiographyByID(ctx context.Context, id string) (biography.Biography, bool, error)

	UpdateBiography(
		ctx context.Context,
		id string,
		patch func(*biography.Biography),
	) (biography.Biography, error)

	FindBiographies(
		ctx context.Context,
		keep func(biography.Biography) bool,
	) ([]biography.Biography, error)

	GetNumberOfBiographies(ctx context.Context) (int64, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	usersKeeper
	biographiesKeeper
	pinger
}

// ErrUserNotFound is returned when a referenced user id is absent from the
// store.
var ErrUserNotFound = errors.New("user not found")

// ErrBiographyNotFound is returned when a biography id is absent from the
// store.
var ErrBiographyNotFound = errors.New("biography not found")

// Service exposes the application operations over the storage layer.
type Service struct {
	db storage
}

// New creates a Service backed by db.
func New(db storage) *Service {
	return &Service{
		db: db,
	}
}

// CreateUser stores a new user with a fresh id and returns it.
func (s *Service) CreateUser(ctx context.Context, req models.CreateUserRequest) (user.User, error) {
	now := time.Now().UTC()

	usr := user.User{
		ID:        uuid.New().String(),
		Openid:    req.Openid,
		Nickname:  req.Nickname,
		Avatar:    req.Avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.InsertUser(ctx, usr); err != nil {
		return user.User{}, fmt.Errorf("inserting user: %w", err)
	}

	return usr, nil
}

// GetUser returns the user stored under id, or ErrUserNotFound.
func (s *Service) GetUser(ctx context.Context, id string) (user.User, error) {
	usr, found, err := s.db.FindUserByID(ctx, id)
	if err != nil {
		return user.User{}, fmt.Errorf("finding user %q: %w", id, err)
	}
	if !found {
		return user.User{}, ErrUserNotFound
	}

	return usr, nil
}

// CreateBiography validates the owning user and stores a new draft
// biography with empty content. Returns ErrUserNotFound when the user id
// does not reference an existing user.
//
// The existence check and the insert are two separate atomic steps. The gap
// between them is harmless because users are never deleted.
func (s *Service) CreateBiography(ctx context.Context, req models.CreateBiographyRequest) (biography.Biography, error) {
	exists, err := s.db.IsUserExists(ctx, req.UserID)
	if err != nil {
		return biography.Biography{}, fmt.Errorf("checking user %q: %w", req.UserID, err)
	}
	if !exists {
		return biography.Biography{}, ErrUserNotFound
	}

	now := time.Now().UTC()

	bio := biography.Biography{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Content:     "",
		Status:      biography.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.InsertBiography(ctx, bio); err != nil {
		return biography.Biography{}, fmt.Errorf("inserting biography: %w", err)
	}

	return bio, nil
}

// ListBiographies returns every biography owned by userID, in unspecified
// order. A user owning nothing yields an empty list, not an error.
func (s *Service) ListBiographies(ctx context.Context, userID string) ([]biography.Biography, error) {
	bios, err := s.db.FindBiographies(ctx, func(bio biography.Biography) bool {
		return bio.UserID == userID
	})
	if err != nil {
		return nil, fmt.Errorf("listing biographies of user %q: %w", userID, err)
	}

	return bios, nil
}

// GetBiography returns the biography stored under id, or
// ErrBiographyNotFound.
func (s *Service) GetBiography(ctx context.Context, id string) (biography.Biography, error) {
	bio, found, err := s.db.FindBiographyByID(ctx, id)
	if err != nil {
		return biography.Biography{}, fmt.Errorf("finding biography %q: %w", id, err)
	}
	if !found {
		return biography.Biography{}, ErrBiographyNotFound
	}

	return bio, nil
}

// UpdateBiography overwrites the fields present in req and leaves the
// absent ones unchanged. The update timestamp is refreshed by the storage
// layer. Returns ErrBiographyNotFound when the id is absent.
func (s *Service) UpdateBiography(
	ctx context.Context,
	id string,
	req models.UpdateBiographyRequest,
) (biography.Biography, error) {
	bio, err := s.db.UpdateBiography(ctx, id, func(bio *biography.Biography) {
		if req.Title != nil {
			bio.Title = *req.Title
		}
		if req.Description != nil {
			bio.Description = req.Description
		}
		if req.Content != nil {
			bio.Content = *req.Content
		}
	})
	if errors.Is(err, memstore.ErrNotFound) {
		return biography.Biography{}, ErrBiographyNotFound
	}
	if err != nil {
		return biography.Biography{}, fmt.Errorf("updating biography %q: %w", id, err)
	}

	return bio, nil
}

// GetInternalStats returns the operational counters: total users, total
// biographies, and the number of distinct users owning at least one
// biography.
func (s *Service) GetInternalStats(ctx context.Context) (models.InternalStatsResponse, error) {
	users, err := s.db.GetNumberOfUsers(ctx)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	bios, err := s.db.GetNumberOfBiographies(ctx)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	all, err := s.db.FindBiographies(ctx, nil)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	owners := funk.Map(all, func(bio biography.Biography) string {
		return bio.UserID
	}).([]string)

	return models.InternalStatsResponse{
		Users:       users,
		Biographies: bios,
		Authors:     int64(len(funk.UniqString(owners))),
	}, nil
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
