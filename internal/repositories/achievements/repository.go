package achievements

import (
	"context"
	"errors"

	"github.com/gamefit-dev/gamefit/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	// Create is unlock-once: inserting a (user, name) pair that already
	// exists is reported as ErrAlreadyUnlocked, backed by the unique index.
	Create(ctx context.Context, achievement *models.Achievement) error
	ListByUser(ctx context.Context, userID uint) ([]*models.Achievement, error)
	NamesByUser(ctx context.Context, userID uint) ([]string, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

var ErrAlreadyUnlocked = errors.New("achievement already unlocked")

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) Repository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	err := r.db.WithContext(ctx).Create(achievement).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyUnlocked
	}
	return err
}

func (r *achievementRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Achievement, error) {
	var unlocked []*models.Achievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&unlocked).Error
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (r *achievementRepository) NamesByUser(ctx context.Context, userID uint) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.Achievement{}).
		Where("user_id = ?", userID).
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *achievementRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Achievement{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
