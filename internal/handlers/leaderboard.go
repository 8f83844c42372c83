package handlers

import (
	"net/http"
	"strconv"

	"github.com/gamefit-dev/gamefit/internal/apperrors"
	"github.com/gamefit-dev/gamefit/internal/repositories/users"
	"github.com/gamefit-dev/gamefit/internal/types"
	"github.com/gamefit-dev/gamefit/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type LeaderboardHandler struct {
	userRepo users.Repository
}

func NewLeaderboardHandler(userRepo users.Repository) *LeaderboardHandler {
	return &LeaderboardHandler{userRepo: userRepo}
}

func parsePositive(raw string, fallback int) int {
	if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
		return parsed
	}
	return fallback
}

// Get lists users by descending points, ties broken by id ascending so the
// ordering is stable across requests.
func (h *LeaderboardHandler) Get(ctx *gin.Context) {
	page := parsePositive(ctx.Query("page"), 1)
	perPage := parsePositive(ctx.Query("per_page"), defaultPerPage)

	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	offset := (page - 1) * perPage

	ranked, err := h.userRepo.ListByPoints(ctx.Request.Context(), perPage, offset)

	if err != nil {
		respondError(ctx, err)
		return
	}

	total, err := h.userRepo.Count(ctx.Request.Context())

	if err != nil {
		respondError(ctx, err)
		return
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	items := make([]types.LeaderboardEntry, 0, len(ranked))
	for i, user := range ranked {
		items = append(items, types.LeaderboardEntry{
			Rank: offset + i + 1,
			User: types.LeaderboardUser{
				ID:       user.ID,
				Username: user.Username,
				Points:   user.ExercisePoints,
			},
		})
	}

	ctx.JSON(http.StatusOK, types.LeaderboardResponse{
		Items: items,
		Pagination: types.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
			TotalItems: total,
		},
	})
}

// MyRank returns the 1-based position of the current user, consistent with
// Get's tie-break: rank = 1 + users strictly ahead.
func (h *LeaderboardHandler) MyRank(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	ahead, err := h.userRepo.CountRankedAbove(ctx.Request.Context(), user.ExercisePoints, user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"rank": ahead + 1})
}
