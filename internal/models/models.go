package models

import "time"

// User is a registered EcoHeroes resident
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	RT        string    `json:"rt"` // neighborhood unit, e.g. "03"
	RW        string    `json:"rw"`
	CreatedAt time.Time `json:"created_at"`
}

// Neighborhood returns the "RT xx / RW yy" label used on leaderboards
func (u User) Neighborhood() string {
	return "RT " + u.RT + " / RW " + u.RW
}

// ReportItem is one category line of a submitted report
type ReportItem struct {
	CategoryID string  `json:"category_id"`
	WeightKg   float64 `json:"weight_kg"`
}

// Report is a persisted waste report
type Report struct {
	ID         string       `json:"id"`
	UserID     int64        `json:"user_id"`
	ReportDate string       `json:"report_date"` // YYYY-MM-DD
	Notes      string       `json:"notes,omitempty"`
	Points     int          `json:"points"`
	Items      []ReportItem `json:"items"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Challenge is a gamification goal users can work towards
type Challenge struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`       // reporting_streak, education, community, organic_kg
	Difficulty  string    `json:"difficulty"` // easy, medium, hard
	Goal        int       `json:"goal"`
	Points      int       `json:"points"`
	CreatedBy   *int64    `json:"created_by,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChallengeWithProgress is a challenge annotated for one user
type ChallengeWithProgress struct {
	Challenge
	Progress int    `json:"progress"`
	Status   string `json:"status"` // active, available, completed
}

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Points        int    `json:"points"`
	Rank          int    `json:"rank"`
	IsCurrentUser bool   `json:"is_current_user,omitempty"`
}

// StatsSnapshot is the per-user aggregate shown on the dashboard and profile
type StatsSnapshot struct {
	UserID           int64              `json:"user_id"`
	TotalPoints      int                `json:"total_points"`
	ReportCount      int                `json:"report_count"`
	CurrentStreak    int                `json:"current_streak"`
	TotalWeightKg    float64            `json:"total_weight_kg"`
	WeightByCategory map[string]float64 `json:"weight_by_category"`
	MonthWeightKg    float64            `json:"month_weight_kg"`
	// MonthByCategory covers reports since the first of the current month
	MonthByCategory map[string]float64 `json:"month_by_category"`
}

// Impact is a rough environmental estimate for a month of reports
type Impact struct {
	CO2Kg       float64 `json:"co2_kg"`
	TreesSaved  int     `json:"trees_saved"`
	WaterLiters int     `json:"water_liters"`
}

// Badge is an achievement derived from a stats snapshot
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

// Toast is user-facing feedback pushed to the client
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"` // success, error
}

// ChatMessage is one line of the EcoBot conversation
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsBot     bool      `json:"is_bot"`
	Timestamp time.Time `json:"timestamp"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
