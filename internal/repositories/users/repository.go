package users

import (
	"context"
	"errors"

	"github.com/gamefit-dev/gamefit/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Taken reports whether another user (excluding excludeID) already owns
	// the username or the email.
	Taken(ctx context.Context, username string, email string, excludeID uint) (bool, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Activate(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error

	// AddPoints increments the cumulative point total with a single SQL
	// expression so concurrent submissions cannot lose an update.
	AddPoints(ctx context.Context, id uint, points int) error
	SetAchievementsUnlocked(ctx context.Context, id uint, count int) error

	// Leaderboard ordering is points descending with id ascending as the
	// tie-break, everywhere.
	ListByPoints(ctx context.Context, limit int, offset int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	CountRankedAbove(ctx context.Context, points int, id uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Taken(ctx context.Context, username string, email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("(username = ? OR email = ?) AND id != ?", username, email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *userRepository) Activate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", true).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Select("Exercises", "Achievements").
		Delete(&models.User{Model: gorm.Model{ID: id}}).Error
}

func (r *userRepository) AddPoints(ctx context.Context, id uint, points int) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("exercise_points", gorm.Expr("exercise_points + ?", points)).Error
}

func (r *userRepository) SetAchievementsUnlocked(ctx context.Context, id uint, count int) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("achievements_unlocked", count).Error
}

func (r *userRepository) ListByPoints(ctx context.Context, limit int, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Order("exercise_points DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) CountRankedAbove(ctx context.Context, points int, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("exercise_points > ? OR (exercise_points = ? AND id < ?)", points, points, id).
		Count(&count).Error
	return count, err
}
