package handlers

import (
	"net/http"

	"github.com/gamefit-dev/gamefit/internal/apperrors"
	"github.com/gamefit-dev/gamefit/internal/progression"
	achievementsrepo "github.com/gamefit-dev/gamefit/internal/repositories/achievements"
	"github.com/gamefit-dev/gamefit/internal/services"
	"github.com/gamefit-dev/gamefit/internal/utils"
	"github.com/gin-gonic/gin"
)

type AchievementHandler struct {
	service         *services.AchievementService
	achievementRepo achievementsrepo.Repository
}

func NewAchievementHandler(service *services.AchievementService, achievementRepo achievementsrepo.Repository) *AchievementHandler {
	return &AchievementHandler{
		service:         service,
		achievementRepo: achievementRepo,
	}
}

type tierResponse struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

// Get recalculates unlocks for the current point total (idempotent), then
// returns the unlocked set plus progress toward the next tier.
func (h *AchievementHandler) Get(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	if _, err := h.service.Recalculate(ctx.Request.Context(), user); err != nil {
		respondError(ctx, err)
		return
	}

	unlocked, err := h.achievementRepo.ListByUser(ctx.Request.Context(), user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	current, next, progress := progression.TierProgress(user.ExercisePoints)

	response := gin.H{
		"achievements": achievementResponses(unlocked),
		"progress":     progress,
		"current_tier": nil,
		"next_tier":    nil,
	}

	if current != nil {
		response["current_tier"] = tierResponse{Name: current.Name, Threshold: current.Threshold}
	}
	if next != nil {
		response["next_tier"] = tierResponse{Name: next.Name, Threshold: next.Threshold}
	}

	ctx.JSON(http.StatusOK, response)
}
