package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/gamefit-dev/gamefit/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

const (
	purposeSession = "session"
	purposeConfirm = "email-confirm"
)

// TokenManager signs and verifies the two token kinds the app uses: the
// session token carried in the auth cookie and the email confirmation token
// embedded in the /confirm link. Both are HS256 JWTs with a purpose claim so
// one can never be replayed as the other.
type TokenManager struct {
	secret     []byte
	sessionTTL time.Duration
	confirmTTL time.Duration
}

func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		sessionTTL: time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		confirmTTL: time.Duration(cfg.ConfirmTTLSeconds) * time.Second,
	}
}

func (m *TokenManager) SessionTTL() time.Duration {
	return m.sessionTTL
}

func (m *TokenManager) GenerateSessionToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     strconv.FormatUint(uint64(userID), 10),
		"purpose": purposeSession,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(m.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifySessionToken returns the user id carried in the token's subject.
func (m *TokenManager) VerifySessionToken(tokenString string) (uint, error) {
	claims, err := m.verify(tokenString, purposeSession)
	if err != nil {
		return 0, err
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return 0, ErrTokenInvalid
	}

	userID, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}

	return uint(userID), nil
}

func (m *TokenManager) GenerateConfirmationToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email":   email,
		"purpose": purposeConfirm,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(m.confirmTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyConfirmationToken returns the email address the token was issued for.
func (m *TokenManager) VerifyConfirmationToken(tokenString string) (string, error) {
	claims, err := m.verify(tokenString, purposeConfirm)
	if err != nil {
		return "", err
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", ErrTokenInvalid
	}

	return email, nil
}

func (m *TokenManager) verify(tokenString string, purpose string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	if claims["purpose"] != purpose {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
