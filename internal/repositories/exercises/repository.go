package exercises

import (
	"context"
	"time"

	"github.com/gamefit-dev/gamefit/internal/models"
	"github.com/gamefit-dev/gamefit/internal/progression"
	"gorm.io/gorm"
)

// ListFilters narrows List to one exercise type and/or an inclusive date
// range. Nil fields are ignored.
type ListFilters struct {
	ExerciseType string
	From         *time.Time
	To           *time.Time
}

type Repository interface {
	// CreateAll persists the entries and increments the owner's point total
	// inside one transaction, so a storage failure leaves neither half
	// applied.
	CreateAll(ctx context.Context, userID uint, entries []*models.Exercise, totalPoints int) error
	List(ctx context.Context, userID uint, filters ListFilters) ([]*models.Exercise, error)
	// SumCountByDate returns per-day repetition sums keyed by
	// progression.DateLayout for one type within [from, to].
	SumCountByDate(ctx context.Context, userID uint, exerciseType string, from time.Time, to time.Time) (map[string]int, error)
	TotalCount(ctx context.Context, userID uint, exerciseType string) (int, error)
	TotalsByType(ctx context.Context, userID uint) (map[string]int, error)
}

type exerciseRepository struct {
	db *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) Repository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) CreateAll(ctx context.Context, userID uint, entries []*models.Exercise, totalPoints int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("exercise_points", gorm.Expr("exercise_points + ?", totalPoints)).Error
	})
}

func (r *exerciseRepository) List(ctx context.Context, userID uint, filters ListFilters) ([]*models.Exercise, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filters.ExerciseType != "" {
		query = query.Where("exercise_type = ?", filters.ExerciseType)
	}
	if filters.From != nil {
		query = query.Where("date >= ?", filters.From.Format(progression.DateLayout))
	}
	if filters.To != nil {
		query = query.Where("date <= ?", filters.To.Format(progression.DateLayout))
	}

	var entries []*models.Exercise
	if err := query.Order("date DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *exerciseRepository) SumCountByDate(ctx context.Context, userID uint, exerciseType string, from time.Time, to time.Time) (map[string]int, error) {
	var rows []struct {
		Date  time.Time
		Total int
	}

	err := r.db.WithContext(ctx).
		Model(&models.Exercise{}).
		Select("date, SUM(count) AS total").
		Where("user_id = ? AND exercise_type = ?", userID, exerciseType).
		Where("date >= ? AND date <= ?", from.Format(progression.DateLayout), to.Format(progression.DateLayout)).
		Group("date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]int, len(rows))
	for _, row := range rows {
		sums[row.Date.Format(progression.DateLayout)] = row.Total
	}
	return sums, nil
}

func (r *exerciseRepository) TotalCount(ctx context.Context, userID uint, exerciseType string) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Exercise{}).
		Where("user_id = ? AND exercise_type = ?", userID, exerciseType).
		Select("COALESCE(SUM(count), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *exerciseRepository) TotalsByType(ctx context.Context, userID uint) (map[string]int, error) {
	var rows []struct {
		ExerciseType string
		Total        int
	}

	err := r.db.WithContext(ctx).
		Model(&models.Exercise{}).
		Select("exercise_type, SUM(count) AS total").
		Where("user_id = ?", userID).
		Group("exercise_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.ExerciseType] = row.Total
	}
	return totals, nil
}
