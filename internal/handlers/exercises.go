package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gamefit-dev/gamefit/internal/apperrors"
	"github.com/gamefit-dev/gamefit/internal/models"
	"github.com/gamefit-dev/gamefit/internal/observability"
	"github.com/gamefit-dev/gamefit/internal/progression"
	"github.com/gamefit-dev/gamefit/internal/repositories/exercises"
	"github.com/gamefit-dev/gamefit/internal/services"
	"github.com/gamefit-dev/gamefit/internal/types"
	"github.com/gamefit-dev/gamefit/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Submission dates may lag at most this many days behind today; future
// dates are rejected outright.
const maxBackdateDays = 2

const defaultStatsWindowDays = 30

type ExerciseHandler struct {
	exerciseRepo exercises.Repository
	achievements *services.AchievementService
}

func NewExerciseHandler(exerciseRepo exercises.Repository, achievements *services.AchievementService) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseRepo: exerciseRepo,
		achievements: achievements,
	}
}

type LogExerciseRequest struct {
	Type      string  `json:"type" binding:"required"`
	Count     int     `json:"count"`
	Date      string  `json:"date" binding:"required"`
	Intensity float64 `json:"intensity"`
}

type LogBatchRequest struct {
	Entries []LogExerciseRequest `json:"entries" binding:"required,min=1"`
}

type BatchEntryError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// validateEntry turns a request entry into a persistable Exercise, or the
// validation error explaining why it cannot be.
func validateEntry(userID uint, body LogExerciseRequest, todayDate time.Time) (*models.Exercise, *apperrors.AppError) {
	if !progression.ValidExerciseType(body.Type) {
		return nil, apperrors.Validation("Invalid exercise type")
	}

	if body.Count <= 0 {
		return nil, apperrors.Validation("Count must be a positive integer")
	}

	date, err := time.ParseInLocation(progression.DateLayout, body.Date, time.UTC)

	if err != nil {
		return nil, apperrors.Validation("Invalid date format")
	}

	earliest := todayDate.AddDate(0, 0, -maxBackdateDays)

	if date.Before(earliest) || date.After(todayDate) {
		return nil, apperrors.Validation("Date must be between today and 2 days ago")
	}

	intensity := body.Intensity
	if intensity == 0 {
		intensity = 1.0
	}

	return &models.Exercise{
		UserID:       userID,
		ExerciseType: body.Type,
		Count:        body.Count,
		Intensity:    intensity,
		Points:       progression.PointsFor(body.Type, body.Count),
		Date:         datatypes.Date(date),
	}, nil
}

func exerciseResponse(entry *models.Exercise) types.ExerciseResponse {
	return types.ExerciseResponse{
		ID:        entry.ID,
		Type:      entry.ExerciseType,
		Count:     entry.Count,
		Intensity: entry.Intensity,
		Points:    entry.Points,
		Date:      time.Time(entry.Date).Format(progression.DateLayout),
	}
}

// persist writes the entries plus the point increment, bumps the metrics
// and re-runs achievement recalculation for the new total.
func (h *ExerciseHandler) persist(ctx *gin.Context, user *models.User, entries []*models.Exercise) error {
	totalPoints := 0
	for _, entry := range entries {
		totalPoints += entry.Points
	}

	if err := h.exerciseRepo.CreateAll(ctx.Request.Context(), user.ID, entries, totalPoints); err != nil {
		return err
	}

	for _, entry := range entries {
		observability.ExercisesLogged.WithLabelValues(entry.ExerciseType).Inc()
	}
	observability.PointsAwarded.Add(float64(totalPoints))

	// The recalculation sees the post-increment total. Its failure does not
	// undo the committed entries; it will catch up on the next submission.
	user.ExercisePoints += totalPoints
	if _, err := h.achievements.Recalculate(ctx.Request.Context(), user); err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("achievement recalculation failed")
	}

	return nil
}

func (h *ExerciseHandler) Log(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	var body LogExerciseRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, apperrors.Validation("Missing required fields"))
		return
	}

	entry, validationErr := validateEntry(user.ID, body, today())

	if validationErr != nil {
		respondError(ctx, validationErr)
		return
	}

	if err := h.persist(ctx, user, []*models.Exercise{entry}); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, exerciseResponse(entry))
}

// LogBatch validates each sub-entry independently: valid entries commit
// together, invalid ones are reported back without blocking the rest. Only
// a batch with no valid entry at all fails.
func (h *ExerciseHandler) LogBatch(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	var body LogBatchRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, apperrors.Validation("Enter at least one exercise entry"))
		return
	}

	todayDate := today()
	var valid []*models.Exercise
	var failures []BatchEntryError

	for i, entryBody := range body.Entries {
		entry, validationErr := validateEntry(user.ID, entryBody, todayDate)
		if validationErr != nil {
			failures = append(failures, BatchEntryError{Index: i, Message: validationErr.Message})
			continue
		}
		valid = append(valid, entry)
	}

	if len(valid) == 0 {
		respondError(ctx, apperrors.Validation("No valid entries"))
		return
	}

	if err := h.persist(ctx, user, valid); err != nil {
		respondError(ctx, err)
		return
	}

	logged := make([]types.ExerciseResponse, 0, len(valid))
	for _, entry := range valid {
		logged = append(logged, exerciseResponse(entry))
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"logged": logged,
		"errors": failures,
	})
}

func (h *ExerciseHandler) List(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	filters := exercises.ListFilters{ExerciseType: ctx.Query("type")}

	if raw := ctx.Query("from_date"); raw != "" {
		from, err := time.ParseInLocation(progression.DateLayout, raw, time.UTC)
		if err != nil {
			respondError(ctx, apperrors.Validation("Invalid from_date"))
			return
		}
		filters.From = &from
	}

	if raw := ctx.Query("to_date"); raw != "" {
		to, err := time.ParseInLocation(progression.DateLayout, raw, time.UTC)
		if err != nil {
			respondError(ctx, apperrors.Validation("Invalid to_date"))
			return
		}
		filters.To = &to
	}

	entries, err := h.exerciseRepo.List(ctx.Request.Context(), user.ID, filters)

	if err != nil {
		respondError(ctx, err)
		return
	}

	responses := make([]types.ExerciseResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, exerciseResponse(entry))
	}

	ctx.JSON(http.StatusOK, responses)
}

// Ranks reports the cumulative repetition total and sub-rank for every
// exercise type, including the ones the user never logged.
func (h *ExerciseHandler) Ranks(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	totals, err := h.exerciseRepo.TotalsByType(ctx.Request.Context(), user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	exerciseTypes := make([]string, 0, len(progression.Multipliers))
	for exerciseType := range progression.Multipliers {
		exerciseTypes = append(exerciseTypes, exerciseType)
	}
	sort.Strings(exerciseTypes)

	responses := make([]types.ExerciseRankResponse, 0, len(exerciseTypes))
	for _, exerciseType := range exerciseTypes {
		total := totals[exerciseType]
		responses = append(responses, types.ExerciseRankResponse{
			Type:  exerciseType,
			Total: total,
			Rank:  progression.RankForExercise(exerciseType, total),
		})
	}

	ctx.JSON(http.StatusOK, responses)
}

// Stats returns a zero-filled per-day count series of exactly days+1 entries
// ending today.
func (h *ExerciseHandler) Stats(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	exerciseType := ctx.Param("type")

	if !progression.ValidExerciseType(exerciseType) {
		respondError(ctx, apperrors.Validation("Invalid exercise type"))
		return
	}

	days := defaultStatsWindowDays
	if raw := ctx.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(ctx, apperrors.Validation("Invalid days parameter"))
			return
		}
		days = parsed
	}

	to := today()
	from := to.AddDate(0, 0, -days)

	sums, err := h.exerciseRepo.SumCountByDate(ctx.Request.Context(), user.ID, exerciseType, from, to)

	if err != nil {
		respondError(ctx, err)
		return
	}

	dates, counts := progression.DailySeries(from, to, sums)

	ctx.JSON(http.StatusOK, types.StatsResponse{
		Dates:  dates,
		Counts: counts,
	})
}
