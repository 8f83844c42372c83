package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gamefit-dev/gamefit/internal/apperrors"
	"github.com/gamefit-dev/gamefit/internal/middleware"
	"github.com/gamefit-dev/gamefit/internal/models"
	"github.com/gamefit-dev/gamefit/internal/progression"
	achievementsrepo "github.com/gamefit-dev/gamefit/internal/repositories/achievements"
	"github.com/gamefit-dev/gamefit/internal/repositories/users"
	"github.com/gamefit-dev/gamefit/internal/types"
	"github.com/gamefit-dev/gamefit/internal/utils"
	"github.com/gamefit-dev/gamefit/internal/validators"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	userRepo        users.Repository
	achievementRepo achievementsrepo.Repository
	cookies         middleware.SessionCookies
}

func NewUserHandler(
	userRepo users.Repository,
	achievementRepo achievementsrepo.Repository,
	cookies middleware.SessionCookies,
) *UserHandler {
	return &UserHandler{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		cookies:         cookies,
	}
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:                   user.ID,
		Username:             user.Username,
		Email:                user.Email,
		ExercisePoints:       user.ExercisePoints,
		Rank:                 progression.RankFromPoints(user.ExercisePoints),
		JoinDate:             user.JoinDate.Format(time.RFC3339),
		AchievementsUnlocked: user.AchievementsUnlocked,
	}
}

func achievementResponses(unlocked []*models.Achievement) []types.AchievementResponse {
	responses := make([]types.AchievementResponse, 0, len(unlocked))

	for _, achievement := range unlocked {
		responses = append(responses, types.AchievementResponse{
			ID:          achievement.ID,
			Name:        achievement.Name,
			Description: achievement.Description,
			UnlockedAt:  achievement.UnlockedAt.Format(time.RFC3339),
		})
	}

	return responses
}

func (h *UserHandler) Me(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	unlocked, err := h.achievementRepo.ListByUser(ctx.Request.Context(), user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":         userResponse(user),
		"achievements": achievementResponses(unlocked),
	})
}

// UpdateProfile replaces username and email, re-hashing the password only
// when a new one was supplied.
func (h *UserHandler) UpdateProfile(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	var body UpdateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, apperrors.Validation("Invalid request"))
		return
	}

	username := strings.TrimSpace(body.Username)
	email := strings.ToLower(strings.TrimSpace(body.Email))
	password := strings.TrimSpace(body.Password)

	if username == "" || email == "" {
		respondError(ctx, apperrors.Validation("Username and email cannot be empty"))
		return
	}

	if !validators.ValidUsername(username) {
		respondError(ctx, apperrors.Validation("Username must be 3-30 letters, numbers or underscores"))
		return
	}

	if !validators.ValidEmail(email) {
		respondError(ctx, apperrors.Validation("Invalid email address"))
		return
	}

	taken, err := h.userRepo.Taken(ctx.Request.Context(), username, email, user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if taken {
		respondError(ctx, apperrors.Conflict("Username or email taken"))
		return
	}

	fields := map[string]interface{}{
		"username": username,
		"email":    email,
	}

	if password != "" {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		if err != nil {
			respondError(ctx, err)
			return
		}

		fields["password_hash"] = string(passwordHash)
	}

	if err := h.userRepo.UpdateFields(ctx.Request.Context(), user.ID, fields); err != nil {
		respondError(ctx, err)
		return
	}

	updated, err := h.userRepo.GetByID(ctx.Request.Context(), user.ID)

	if err != nil || updated == nil {
		respondError(ctx, apperrors.Internal("Internal server error"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    userResponse(updated),
	})
}

// DeleteAccount removes the user and every owned exercise and achievement,
// then clears the session cookie.
func (h *UserHandler) DeleteAccount(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	var body DeleteAccountRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, apperrors.Validation("Password is required for account deletion"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)) != nil {
		respondError(ctx, apperrors.Authentication("Incorrect password"))
		return
	}

	if err := h.userRepo.Delete(ctx.Request.Context(), user.ID); err != nil {
		respondError(ctx, err)
		return
	}

	h.cookies.Clear(ctx)

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (h *UserHandler) MyAchievements(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	unlocked, err := h.achievementRepo.ListByUser(ctx.Request.Context(), user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, achievementResponses(unlocked))
}
