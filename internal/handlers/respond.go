package handlers

import (
	"errors"
	"net/http"

	"github.com/gamefit-dev/gamefit/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError renders an *AppError as its {code, message, status} body.
// Anything else is logged and hidden behind a 500.
func respondError(ctx *gin.Context, err error) {
	var appErr *apperrors.AppError

	if errors.As(err, &appErr) {
		ctx.JSON(appErr.Code, appErr)
		return
	}

	log.Error().Err(err).Str("path", ctx.FullPath()).Msg("unhandled error")
	ctx.JSON(http.StatusInternalServerError, apperrors.Internal("Internal server error"))
}
