package types

type UserResponse struct {
	ID                   uint   `json:"id"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	ExercisePoints       int    `json:"exercise_points"`
	Rank                 string `json:"rank"`
	JoinDate             string `json:"join_date"`
	AchievementsUnlocked int    `json:"achievements_unlocked"`
}

type ExerciseResponse struct {
	ID        uint    `json:"id"`
	Type      string  `json:"type"`
	Count     int     `json:"count"`
	Intensity float64 `json:"intensity"`
	Points    int     `json:"points"`
	Date      string  `json:"date"`
}

type AchievementResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnlockedAt  string `json:"unlocked_at"`
}

type LeaderboardUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

type LeaderboardEntry struct {
	Rank int             `json:"rank"`
	User LeaderboardUser `json:"user"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

type LeaderboardResponse struct {
	Items      []LeaderboardEntry `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

// StatsResponse carries two parallel arrays of equal length, one entry per
// day of the requested window.
type StatsResponse struct {
	Dates  []string `json:"dates"`
	Counts []int    `json:"counts"`
}

type ExerciseRankResponse struct {
	Type  string `json:"type"`
	Total int    `json:"total"`
	Rank  string `json:"rank"`
}
