package services

import (
	"context"
	"errors"
	"log"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/adapters/persistence/repositories"
	"civicsaathi/internal/pkg/password"
)

// User service errors
var (
	ErrWrongPassword = errors.New("current password is incorrect")
)

// UserService handles user profile business logic
type UserService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	complaintRepo    repositories.ComplaintRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	complaintRepo repositories.ComplaintRepository,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		complaintRepo:    complaintRepo,
	}
}

// ProfileResponse bundles the account with its complaint counts
type ProfileResponse struct {
	User  *models.UserResponse `json:"user"`
	Stats map[string]int64     `json:"complaint_stats"`
}

// GetProfile returns a user's profile with complaint statistics
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	total, err := s.complaintRepo.CountByCitizen(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	resolved, err := s.complaintRepo.CountByCitizen(ctx, userID, []string{"resolved", "closed"})
	if err != nil {
		return nil, err
	}
	open, err := s.complaintRepo.CountByCitizen(ctx, userID, []string{"pending", "in_progress", "escalated"})
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		User: user.ToResponse(),
		Stats: map[string]int64{
			"total":    total,
			"resolved": resolved,
			"open":     open,
		},
	}, nil
}

// UpdateProfileInput carries editable profile fields
type UpdateProfileInput struct {
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UpdateProfile updates a user's editable fields
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ChangePassword verifies the current password, sets the new one and
// revokes every active session.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !password.Verify(currentPassword, user.Password) {
		return ErrWrongPassword
	}
	if !password.ValidatePassword(newPassword) {
		return ErrWeakPassword
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		log.Printf("❌ Failed to revoke sessions after password change for user %d: %v", userID, err)
	}
	return nil
}
