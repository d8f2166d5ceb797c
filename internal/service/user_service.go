package service

import (
	"context"

	"starprep/internal/models"
	"starprep/internal/repository"
	"starprep/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ViewerFor resolves an authenticated user ID to the access-control identity
// handlers pass down. A missing user resolves to the anonymous viewer.
func (s *UserService) ViewerFor(ctx context.Context, userID uint) models.Viewer {
	if userID == 0 {
		return models.Viewer{}
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.Viewer{}
	}
	return models.ViewerFor(user)
}

type UpdateProfileInput struct {
	UserID   uint
	Username string
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAdmin grants or revokes moderation rights. Callers gate this behind an
// admin check.
func (s *UserService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.IsAdmin = isAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
