package utils

import (
	"fmt"

	"github.com/gamefit-dev/gamefit/internal/models"
	"github.com/gamefit-dev/gamefit/internal/types"
	"github.com/gin-gonic/gin"
)

// GetCurrentUser returns the user resolved by the auth middleware. Failure
// is an explicit error branch, not a swallowed lookup.
func GetCurrentUser(ctx *gin.Context) (*models.User, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return nil, fmt.Errorf("user not authenticated")
	}

	user, ok := value.(*models.User)

	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return user, nil
}
