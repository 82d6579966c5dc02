package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/collabridge/collabridge-api/internal/constants"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/repository"
	"github.com/collabridge/collabridge-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrUsernameChangeTooSoon = errors.New("username was changed too recently")
	ErrUsernameUnchanged     = errors.New("new username is the same as the current one")
)

// UserService handles user directory and profile changes.
type UserService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

// ListUsers returns every user's public identity ordered by username.
func (s *UserService) ListUsers(ctx context.Context, page utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UpdateUsername changes the user's handle, at most once per cooldown window.
func (s *UserService) UpdateUsername(ctx context.Context, userID uint64, newUsername string) (*models.User, error) {
	username := normalizeUsername(newUsername)
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	holder, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil && holder.ID != user.ID:
		return nil, ErrUsernameTaken
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	now := s.now()
	if user.LastUsernameChange != nil {
		elapsed := now.Sub(*user.LastUsernameChange)
		if elapsed < constants.UsernameChangeCooldown {
			remaining := constants.UsernameChangeCooldown - elapsed
			return nil, &UsernameCooldownError{DaysRemaining: int(math.Ceil(remaining.Hours() / 24))}
		}
	}

	if username == user.Username {
		return nil, ErrUsernameUnchanged
	}

	user.PreviousUsernames = append(user.PreviousUsernames, user.Username)
	user.Username = username
	user.LastUsernameChange = &now

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update username: %w", err)
	}
	return user, nil
}
