package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gamefit-dev/gamefit/internal/apperrors"
	"github.com/gamefit-dev/gamefit/internal/auth"
	"github.com/gamefit-dev/gamefit/internal/mailer"
	"github.com/gamefit-dev/gamefit/internal/middleware"
	"github.com/gamefit-dev/gamefit/internal/models"
	"github.com/gamefit-dev/gamefit/internal/observability"
	"github.com/gamefit-dev/gamefit/internal/repositories/users"
	"github.com/gamefit-dev/gamefit/internal/validators"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	userRepo users.Repository
	tokens   *auth.TokenManager
	mail     mailer.Mailer
	cookies  middleware.SessionCookies
	baseURL  string
}

func NewAuthHandler(
	userRepo users.Repository,
	tokens *auth.TokenManager,
	mail mailer.Mailer,
	cookies middleware.SessionCookies,
	baseURL string,
) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		tokens:   tokens,
		mail:     mail,
		cookies:  cookies,
		baseURL:  baseURL,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an inactive account and sends the confirmation link. The
// account stays unusable until the link is followed.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, apperrors.Validation("All fields required"))
		return
	}

	username := strings.TrimSpace(body.Username)
	email := strings.ToLower(strings.TrimSpace(body.Email))

	if !validators.ValidUsername(username) {
		respondError(ctx, apperrors.Validation("Username must be 3-30 letters, numbers or underscores"))
		return
	}

	if !validators.ValidPassword(body.Password) {
		respondError(ctx, apperrors.Validation("Password must be at least 8 characters with upper, lower and digit"))
		return
	}

	taken, err := h.userRepo.Taken(ctx.Request.Context(), username, email, 0)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if taken {
		respondError(ctx, apperrors.Conflict("Username or email taken"))
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		respondError(ctx, err)
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
	}

	if err := h.userRepo.Create(ctx.Request.Context(), &user); err != nil {
		respondError(ctx, err)
		return
	}

	observability.UsersRegistered.Inc()

	token, err := h.tokens.GenerateConfirmationToken(email)

	if err != nil {
		log.Error().Err(err).Msg("failed to generate confirmation token")
	} else {
		confirmURL := h.baseURL + "/confirm/" + token

		// Mail delivery is best effort and never fails the registration.
		if err := h.mail.SendConfirmation(email, username, confirmURL); err != nil {
			log.Error().Err(err).Str("email", email).Msg("mail failed")
		}
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Registered! Check your email."})
}

// ConfirmEmail flips the activation flag for the address embedded in the
// token. Confirming an already-active account is a no-op success.
func (h *AuthHandler) ConfirmEmail(ctx *gin.Context) {
	token := ctx.Param("token")

	email, err := h.tokens.VerifyConfirmationToken(token)

	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			respondError(ctx, apperrors.Validation("Link expired"))
			return
		}
		respondError(ctx, apperrors.Validation("Invalid token"))
		return
	}

	user, err := h.userRepo.GetByEmail(ctx.Request.Context(), email)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if user == nil {
		respondError(ctx, apperrors.NotFound("User not found"))
		return
	}

	if !user.IsActive {
		if err := h.userRepo.Activate(ctx.Request.Context(), user.ID); err != nil {
			respondError(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Email confirmed"})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, apperrors.Validation("All fields required"))
		return
	}

	user, err := h.userRepo.GetByUsername(ctx.Request.Context(), strings.TrimSpace(body.Username))

	if err != nil {
		respondError(ctx, err)
		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)) != nil {
		respondError(ctx, apperrors.Authentication("Invalid credentials"))
		return
	}

	if !user.IsActive {
		respondError(ctx, apperrors.Forbidden("Please confirm email"))
		return
	}

	token, err := h.tokens.GenerateSessionToken(user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	h.cookies.Set(ctx, token)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userResponse(user),
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.cookies.Clear(ctx)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
