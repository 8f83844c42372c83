package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gamefit-dev/gamefit/config"
	"github.com/gamefit-dev/gamefit/internal/auth"
	"github.com/gamefit-dev/gamefit/internal/mailer"
	"github.com/gamefit-dev/gamefit/internal/middleware"
	"github.com/gamefit-dev/gamefit/internal/models"
	"github.com/gamefit-dev/gamefit/internal/progression"
	achievementsrepo "github.com/gamefit-dev/gamefit/internal/repositories/achievements"
	"github.com/gamefit-dev/gamefit/internal/repositories/exercises"
	"github.com/gamefit-dev/gamefit/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testJWTSecret = "gamefit_test_jwt_secret_1234567890"
	testPassword  = "Secret123"
)

// mockUserRepo is a simple in-memory stand-in for the GORM repository.
type mockUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*models.User)}
}

func copyUser(user *models.User) *models.User {
	clone := *user
	return &clone
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	user.JoinDate = time.Now()
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return copyUser(user), nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Taken(ctx context.Context, username string, email string, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == excludeID {
			continue
		}
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil
	}
	if username, ok := fields["username"].(string); ok {
		user.Username = username
	}
	if email, ok := fields["email"].(string); ok {
		user.Email = email
	}
	if passwordHash, ok := fields["password_hash"].(string); ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (m *mockUserRepo) Activate(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		user.IsActive = true
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) AddPoints(ctx context.Context, id uint, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		user.ExercisePoints += points
	}
	return nil
}

func (m *mockUserRepo) SetAchievementsUnlocked(ctx context.Context, id uint, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		user.AchievementsUnlocked = count
	}
	return nil
}

func (m *mockUserRepo) sortedByPoints() []*models.User {
	ranked := make([]*models.User, 0, len(m.users))
	for _, user := range m.users {
		ranked = append(ranked, copyUser(user))
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ExercisePoints != ranked[j].ExercisePoints {
			return ranked[i].ExercisePoints > ranked[j].ExercisePoints
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

func (m *mockUserRepo) ListByPoints(ctx context.Context, limit int, offset int) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ranked := m.sortedByPoints()
	if offset >= len(ranked) {
		return nil, nil
	}
	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[offset:end], nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) CountRankedAbove(ctx context.Context, points int, id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, user := range m.users {
		if user.ExercisePoints > points || (user.ExercisePoints == points && user.ID < id) {
			count++
		}
	}
	return count, nil
}

type mockExerciseRepo struct {
	mu      sync.Mutex
	nextID  uint
	entries []*models.Exercise
	users   *mockUserRepo
}

func (m *mockExerciseRepo) CreateAll(ctx context.Context, userID uint, entries []*models.Exercise, totalPoints int) error {
	m.mu.Lock()
	for _, entry := range entries {
		m.nextID++
		entry.ID = m.nextID
		m.entries = append(m.entries, entry)
	}
	m.mu.Unlock()
	return m.users.AddPoints(ctx, userID, totalPoints)
}

func (m *mockExerciseRepo) List(ctx context.Context, userID uint, filters exercises.ListFilters) ([]*models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*models.Exercise
	for _, entry := range m.entries {
		if entry.UserID != userID {
			continue
		}
		if filters.ExerciseType != "" && entry.ExerciseType != filters.ExerciseType {
			continue
		}
		date := time.Time(entry.Date)
		if filters.From != nil && date.Before(*filters.From) {
			continue
		}
		if filters.To != nil && date.After(*filters.To) {
			continue
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool {
		di, dj := time.Time(matched[i].Date), time.Time(matched[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return matched[i].ID > matched[j].ID
	})
	return matched, nil
}

func (m *mockExerciseRepo) SumCountByDate(ctx context.Context, userID uint, exerciseType string, from time.Time, to time.Time) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sums := make(map[string]int)
	for _, entry := range m.entries {
		if entry.UserID != userID || entry.ExerciseType != exerciseType {
			continue
		}
		date := time.Time(entry.Date)
		if date.Before(from) || date.After(to) {
			continue
		}
		sums[date.Format(progression.DateLayout)] += entry.Count
	}
	return sums, nil
}

func (m *mockExerciseRepo) TotalCount(ctx context.Context, userID uint, exerciseType string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, entry := range m.entries {
		if entry.UserID == userID && entry.ExerciseType == exerciseType {
			total += entry.Count
		}
	}
	return total, nil
}

func (m *mockExerciseRepo) TotalsByType(ctx context.Context, userID uint) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := make(map[string]int)
	for _, entry := range m.entries {
		if entry.UserID == userID {
			totals[entry.ExerciseType] += entry.Count
		}
	}
	return totals, nil
}

type mockAchievementRepo struct {
	mu       sync.Mutex
	nextID   uint
	unlocked []*models.Achievement
}

func newMockAchievementRepo() *mockAchievementRepo {
	return &mockAchievementRepo{}
}

func (m *mockAchievementRepo) Create(ctx context.Context, achievement *models.Achievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.unlocked {
		if existing.UserID == achievement.UserID && existing.Name == achievement.Name {
			return achievementsrepo.ErrAlreadyUnlocked
		}
	}
	m.nextID++
	achievement.ID = m.nextID
	m.unlocked = append(m.unlocked, achievement)
	return nil
}

func (m *mockAchievementRepo) ListByUser(ctx context.Context, userID uint) ([]*models.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*models.Achievement
	for _, achievement := range m.unlocked {
		if achievement.UserID == userID {
			matched = append(matched, achievement)
		}
	}
	return matched, nil
}

func (m *mockAchievementRepo) NamesByUser(ctx context.Context, userID uint) ([]string, error) {
	matched, _ := m.ListByUser(ctx, userID)
	names := make([]string, 0, len(matched))
	for _, achievement := range matched {
		names = append(names, achievement.Name)
	}
	return names, nil
}

func (m *mockAchievementRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	matched, _ := m.ListByUser(ctx, userID)
	return int64(len(matched)), nil
}

type testEnv struct {
	router       *gin.Engine
	users        *mockUserRepo
	exercises    *mockExerciseRepo
	achievements *mockAchievementRepo
	tokens       *auth.TokenManager
	cookieName   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := newMockUserRepo()
	exerciseRepo := &mockExerciseRepo{users: userRepo}
	achievementRepo := newMockAchievementRepo()

	authCfg := config.AuthConfig{
		JWTSecret:         testJWTSecret,
		SessionTTLMinutes: 15,
		ConfirmTTLSeconds: 3600,
		CookieName:        "token",
	}
	tokens := auth.NewTokenManager(authCfg)
	cookies := middleware.NewSessionCookies(config.AppConfig{}, authCfg)

	r := router.NewRouter(router.Dependencies{
		Users:        userRepo,
		Exercises:    exerciseRepo,
		Achievements: achievementRepo,
		Tokens:       tokens,
		Mailer:       mailer.New(config.MailConfig{}),
		Cookies:      cookies,
		BaseURL:      "http://localhost:3000",
		CORSOrigins:  config.AppConfig{}.CORSOrigins(),
	})

	return &testEnv{
		router:       r,
		users:        userRepo,
		exercises:    exerciseRepo,
		achievements: achievementRepo,
		tokens:       tokens,
		cookieName:   authCfg.CookieName,
	}
}

func (e *testEnv) createUser(t *testing.T, username string, points int, active bool) *models.User {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		PasswordHash:   string(passwordHash),
		IsActive:       active,
		ExercisePoints: points,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) sessionCookie(t *testing.T, userID uint) *http.Cookie {
	t.Helper()

	token, err := e.tokens.GenerateSessionToken(userID)
	require.NoError(t, err)

	return &http.Cookie{Name: e.cookieName, Value: token}
}

func (e *testEnv) perform(t *testing.T, method string, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
