package middleware

import (
	"net/http"

	"github.com/gamefit-dev/gamefit/config"
	"github.com/gamefit-dev/gamefit/internal/apperrors"
	"github.com/gamefit-dev/gamefit/internal/auth"
	"github.com/gamefit-dev/gamefit/internal/repositories/users"
	"github.com/gamefit-dev/gamefit/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SessionCookies writes and clears the HTTP-only cookie that carries the
// session token.
type SessionCookies struct {
	Name   string
	Domain string
	MaxAge int
	Secure bool
}

func NewSessionCookies(appCfg config.AppConfig, authCfg config.AuthConfig) SessionCookies {
	return SessionCookies{
		Name:   authCfg.CookieName,
		Domain: appCfg.Domain,
		MaxAge: authCfg.SessionTTLMinutes * 60,
		Secure: authCfg.CookieSecure,
	}
}

func (c SessionCookies) Set(ctx *gin.Context, token string) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   c.MaxAge,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookies) Clear(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   -1,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthMiddleware resolves the session cookie into a user record and stores
// it in the request context. Every successful pass re-issues a fresh token,
// so an active session keeps sliding forward instead of expiring mid-use.
func AuthMiddleware(tokens *auth.TokenManager, userRepo users.Repository, cookies SessionCookies) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := ctx.Cookie(cookies.Name)

		if err != nil || tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.Authentication("Authentication required"))
			return
		}

		userID, err := tokens.VerifySessionToken(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.Authentication("Invalid or expired token"))
			return
		}

		user, err := userRepo.GetByID(ctx.Request.Context(), userID)

		if err != nil {
			log.Error().Err(err).Uint("user_id", userID).Msg("failed to resolve session user")
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.Internal("Internal server error"))
			return
		}

		if user == nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.Authentication("Authentication required"))
			return
		}

		if refreshed, err := tokens.GenerateSessionToken(user.ID); err == nil {
			cookies.Set(ctx, refreshed)
		} else {
			log.Error().Err(err).Msg("failed to refresh session token")
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}
