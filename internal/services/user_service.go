// internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phelcone/phelcone-backend/internal/models"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Avatar   string `json:"avatar"`
	Birthday string `json:"birthday"` // YYYY-MM-DD
	IsPWD    bool   `json:"is_pwd"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetProfileByUserID loads the settings-page profile. A user without a
// profile row is indistinguishable from a missing user for checkout
// purposes.
func (s *UserService) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &profile, nil
}

// UpdateProfile upserts the settings-page fields. The user row must exist;
// the profile row is created on first save.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*models.UserProfile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var birthday *time.Time
	if req.Birthday != "" {
		parsed, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return nil, fmt.Errorf("invalid birthday format: %w", err)
		}
		birthday = &parsed
	}

	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.UserProfile{
			UserID:   userID,
			Name:     req.Name,
			Phone:    req.Phone,
			Address:  req.Address,
			Avatar:   req.Avatar,
			Birthday: birthday,
			IsPWD:    req.IsPWD,
		}
		if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	default:
		updates := map[string]interface{}{
			"name":     req.Name,
			"phone":    req.Phone,
			"address":  req.Address,
			"avatar":   req.Avatar,
			"birthday": birthday,
			"is_pwd":   req.IsPWD,
		}
		if err := s.db.WithContext(ctx).Model(&profile).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return &profile, nil
}

// UpdateWishlist replaces the stored wishlist with the given gadget ids.
func (s *UserService) UpdateWishlist(ctx context.Context, userID uuid.UUID, gadgetIDs []string) error {
	result := s.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update("wishlist", gadgetIDs)

	if result.Error != nil {
		return fmt.Errorf("failed to update wishlist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// SetAvatar stores the uploaded avatar URL on the profile.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, url string) error {
	result := s.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update("avatar", url)

	if result.Error != nil {
		return fmt.Errorf("failed to update avatar: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// ListUsers backs the admin user table.
func (s *UserService) ListUsers(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).Preload("Profile")

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "username", "email"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}
