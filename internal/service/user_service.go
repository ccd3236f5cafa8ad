package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sajango/account-service/internal/dto"
	"github.com/sajango/account-service/internal/repository"
	"github.com/sajango/account-service/internal/utils"
)

// userService implements UserService. Reads go through the Redis profile
// cache; updates write through and invalidate.
type userService struct {
	userRepo repository.UserRepository
	cache    *UserCache
}

// NewUserService creates a new user service. The cache is optional; a nil
// cache disables it.
func NewUserService(userRepo repository.UserRepository, cache *UserCache) UserService {
	return &userService{
		userRepo: userRepo,
		cache:    cache,
	}
}

// GetByID returns a user profile
func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	if s.cache != nil {
		if cached := s.cache.Get(ctx, id); cached != nil {
			return cached, nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	response := dto.NewUserResponse(user)

	if s.cache != nil {
		// A cache failure must not fail the read.
		_ = s.cache.Set(ctx, response)
	}

	return response, nil
}

// List returns user profiles ordered by creation time
func (s *userService) List(ctx context.Context, limit, offset int) ([]*dto.UserResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	return responses, nil
}

// Update applies a partial update to a user record. The auth provider and
// password hash are not reachable from here.
func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Email != nil {
		email := utils.SanitizeEmail(*req.Email)
		if !utils.ValidateEmail(email) {
			return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
		}
		user.Email = email
	}
	if req.Username != nil {
		if !utils.ValidateUsername(*req.Username) {
			return nil, fmt.Errorf("%w: invalid username format", ErrInvalidInput)
		}
		user.Username = *req.Username
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.IsActive != nil {
		if *req.IsActive {
			user.Activate()
		} else {
			user.Deactivate()
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}

	return dto.NewUserResponse(user), nil
}
