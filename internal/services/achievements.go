package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamefit-dev/gamefit/internal/models"
	"github.com/gamefit-dev/gamefit/internal/observability"
	"github.com/gamefit-dev/gamefit/internal/progression"
	achievementsrepo "github.com/gamefit-dev/gamefit/internal/repositories/achievements"
	usersrepo "github.com/gamefit-dev/gamefit/internal/repositories/users"
	"github.com/rs/zerolog/log"
)

// AchievementService turns the pure tier-eligibility rule into persisted
// achievement rows. The rule itself lives in the progression package so it
// can be tested without a database.
type AchievementService struct {
	userRepo        usersrepo.Repository
	achievementRepo achievementsrepo.Repository
}

func NewAchievementService(userRepo usersrepo.Repository, achievementRepo achievementsrepo.Repository) *AchievementService {
	return &AchievementService{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
	}
}

// Recalculate unlocks every tier the user's point total has earned but not
// yet recorded, and refreshes the cached unlock count. It never removes an
// achievement and calling it twice in a row creates nothing the second time.
func (s *AchievementService) Recalculate(ctx context.Context, user *models.User) ([]*models.Achievement, error) {
	owned, err := s.achievementRepo.NamesByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	missing := progression.MissingAchievements(user.ExercisePoints, owned)

	var created []*models.Achievement
	for _, tier := range missing {
		achievement := &models.Achievement{
			UserID:      user.ID,
			Name:        tier.Name,
			Description: fmt.Sprintf("Earned %d exercise points", tier.Threshold),
			UnlockedAt:  time.Now(),
		}

		if err := s.achievementRepo.Create(ctx, achievement); err != nil {
			if errors.Is(err, achievementsrepo.ErrAlreadyUnlocked) {
				// Lost a race with a concurrent submission; the row exists,
				// which is all idempotence asks for.
				continue
			}
			return nil, err
		}

		created = append(created, achievement)
		observability.AchievementsUnlocked.Inc()
		log.Info().
			Uint("user_id", user.ID).
			Str("achievement", tier.Name).
			Msg("achievement unlocked")
	}

	if len(created) > 0 {
		count, err := s.achievementRepo.CountByUser(ctx, user.ID)
		if err != nil {
			return created, err
		}
		if err := s.userRepo.SetAchievementsUnlocked(ctx, user.ID, int(count)); err != nil {
			return created, err
		}
	}

	return created, nil
}
