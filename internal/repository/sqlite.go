package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/ecoheroes/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			rt TEXT NOT NULL DEFAULT '',
			rw TEXT NOT NULL DEFAULT '',
			invite_code TEXT UNIQUE,
			referred_by INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (referred_by) REFERENCES users(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			report_date TEXT NOT NULL,
			notes TEXT,
			points INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS report_items (
			report_id TEXT NOT NULL,
			category_id TEXT NOT NULL,
			weight_kg REAL NOT NULL,
			PRIMARY KEY (report_id, category_id),
			FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS challenges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			type TEXT NOT NULL,
			difficulty TEXT NOT NULL DEFAULT 'easy',
			goal INTEGER NOT NULL,
			points INTEGER NOT NULL,
			created_by INTEGER,
			is_active BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (created_by) REFERENCES users(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS challenge_participants (
			user_id INTEGER NOT NULL,
			challenge_id INTEGER NOT NULL,
			joined_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME,
			PRIMARY KEY (user_id, challenge_id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (challenge_id) REFERENCES challenges(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_user_date ON reports(user_id, report_date)`,
		`CREATE INDEX IF NOT EXISTS idx_report_items_report ON report_items(report_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_rt ON users(rt, rw)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// base_url is not set here; app.go fills it with the detected LAN address.
	defaultSettings := map[string]string{
		SettingChatStrategy:   "keyword",
		SettingLeaderboardTip: "",
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// Setting keys
const (
	SettingBaseURL        = "base_url"
	SettingChatStrategy   = "chat_strategy"
	SettingLeaderboardTip = "leaderboard_note"
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if stderrors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// ==================== User Methods ====================

const userColumns = `id, email, name, rt, rw, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.RT, &u.RW, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user. A taken email or invite code returns ErrDuplicate.
func (r *Repository) CreateUser(ctx context.Context, u models.User, passwordHash, inviteCode string, referredBy *int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, name, password_hash, rt, rw, invite_code, referred_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.Email, u.Name, passwordHash, u.RT, u.RW, inviteCode, referredBy)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return result.LastInsertId()
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

// GetUserByEmail returns the user and their password hash
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var u models.User
	var hash string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, rt, rw, created_at, password_hash FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.RT, &u.RW, &u.CreatedAt, &hash)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return &u, hash, nil
}

// GetUserByInviteCode resolves a referral code to its owner
func (r *Repository) GetUserByInviteCode(ctx context.Context, code string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE invite_code = ?`, code))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

// GetInviteCode returns the user's referral code
func (r *Repository) GetInviteCode(ctx context.Context, userID int64) (string, error) {
	var code sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT invite_code FROM users WHERE id = ?`, userID).Scan(&code)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return code.String, err
}

// CountReferrals counts users who signed up with userID's invite code
func (r *Repository) CountReferrals(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE referred_by = ?`, userID).Scan(&count)
	return count, err
}

// ==================== Report Methods ====================

// InsertReport stores a report and its items in one transaction
func (r *Repository) InsertReport(ctx context.Context, rep *models.Report) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reports (id, user_id, report_date, notes, points, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rep.ID, rep.UserID, rep.ReportDate, rep.Notes, rep.Points, rep.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}

	for _, item := range rep.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO report_items (report_id, category_id, weight_kg) VALUES (?, ?, ?)
		`, rep.ID, item.CategoryID, item.WeightKg); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
	}

	return tx.Commit()
}

// ListReportDates returns the user's distinct report dates, newest first.
// A limit <= 0 returns every date.
func (r *Repository) ListReportDates(ctx context.Context, userID int64, limit int) ([]string, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT report_date FROM reports
		WHERE user_id = ?
		ORDER BY report_date DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// ListRecentReports returns the user's latest reports with their items
func (r *Repository) ListRecentReports(ctx context.Context, userID int64, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.report_date, r.notes, r.points, r.created_at, ri.category_id, ri.weight_kg
		FROM reports r
		LEFT JOIN report_items ri ON ri.report_id = r.id
		WHERE r.id IN (
			SELECT id FROM reports WHERE user_id = ?
			ORDER BY report_date DESC, created_at DESC
			LIMIT ?
		)
		ORDER BY r.report_date DESC, r.created_at DESC, ri.category_id
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	index := make(map[string]int)
	for rows.Next() {
		var rep models.Report
		var notes, categoryID sql.NullString
		var weight sql.NullFloat64
		if err := rows.Scan(&rep.ID, &rep.UserID, &rep.ReportDate, &notes, &rep.Points, &rep.CreatedAt, &categoryID, &weight); err != nil {
			return nil, err
		}

		i, seen := index[rep.ID]
		if !seen {
			rep.Notes = notes.String
			rep.Items = []models.ReportItem{}
			reports = append(reports, rep)
			i = len(reports) - 1
			index[rep.ID] = i
		}
		if categoryID.Valid {
			reports[i].Items = append(reports[i].Items, models.ReportItem{
				CategoryID: categoryID.String,
				WeightKg:   weight.Float64,
			})
		}
	}
	return reports, rows.Err()
}

// ReportSummary returns the user's total report points and report count
func (r *Repository) ReportSummary(ctx context.Context, userID int64) (points int, count int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(points), 0), COUNT(*) FROM reports WHERE user_id = ?
	`, userID).Scan(&points, &count)
	return points, count, err
}

// CategoryWeights sums reported kilograms per category, optionally only
// for reports on or after since (YYYY-MM-DD; empty means all time).
func (r *Repository) CategoryWeights(ctx context.Context, userID int64, since string) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ri.category_id, SUM(ri.weight_kg)
		FROM report_items ri
		JOIN reports r ON r.id = ri.report_id
		WHERE r.user_id = ? AND (? = '' OR r.report_date >= ?)
		GROUP BY ri.category_id
	`, userID, since, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var id string
		var kg float64
		if err := rows.Scan(&id, &kg); err != nil {
			return nil, err
		}
		weights[id] = kg
	}
	return weights, rows.Err()
}

// ==================== Leaderboard Methods ====================

// LeaderboardRow is one ranked entity before ranking
type LeaderboardRow struct {
	ID     string
	Name   string
	Points int
}

// UserLeaderboard ranks residents of one RT/RW by report points since the given date
func (r *Repository) UserLeaderboard(ctx context.Context, rt, rw, since string) ([]LeaderboardRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(u.id AS TEXT), u.name, COALESCE(SUM(r.points), 0) AS pts
		FROM users u
		LEFT JOIN reports r ON r.user_id = u.id AND (? = '' OR r.report_date >= ?)
		WHERE u.rt = ? AND u.rw = ?
		GROUP BY u.id, u.name
		ORDER BY pts DESC, u.name
	`, since, since, rt, rw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Points); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// RTLeaderboard ranks neighborhood units by the summed points of their residents
func (r *Repository) RTLeaderboard(ctx context.Context, since string) ([]LeaderboardRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.rt, u.rw, COALESCE(SUM(r.points), 0) AS pts
		FROM users u
		LEFT JOIN reports r ON r.user_id = u.id AND (? = '' OR r.report_date >= ?)
		WHERE u.rt != ''
		GROUP BY u.rt, u.rw
		ORDER BY pts DESC, u.rw, u.rt
	`, since, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var rt, rw string
		var pts int
		if err := rows.Scan(&rt, &rw, &pts); err != nil {
			return nil, err
		}
		u := models.User{RT: rt, RW: rw}
		out = append(out, LeaderboardRow{ID: rt + "/" + rw, Name: u.Neighborhood(), Points: pts})
	}
	return out, rows.Err()
}

// ==================== Challenge Methods ====================

const challengeColumns = `id, title, description, type, difficulty, goal, points, created_by, is_active, created_at`

func scanChallenge(row interface{ Scan(...any) error }) (*models.Challenge, error) {
	var c models.Challenge
	var description sql.NullString
	var createdBy sql.NullInt64
	if err := row.Scan(&c.ID, &c.Title, &description, &c.Type, &c.Difficulty, &c.Goal, &c.Points,
		&createdBy, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Description = description.String
	if createdBy.Valid {
		id := createdBy.Int64
		c.CreatedBy = &id
	}
	return &c, nil
}

// ListChallenges returns active challenges, oldest first
func (r *Repository) ListChallenges(ctx context.Context) ([]models.Challenge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+challengeColumns+` FROM challenges WHERE is_active = 1 ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

// GetChallenge retrieves a challenge by ID
func (r *Repository) GetChallenge(ctx context.Context, id int64) (*models.Challenge, error) {
	c, err := scanChallenge(r.db.QueryRowContext(ctx, `SELECT `+challengeColumns+` FROM challenges WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

// CreateChallenge inserts a challenge
func (r *Repository) CreateChallenge(ctx context.Context, c models.Challenge) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO challenges (title, description, type, difficulty, goal, points, created_by, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.Title, c.Description, c.Type, c.Difficulty, c.Goal, c.Points, c.CreatedBy, c.IsActive)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CountChallenges counts every challenge, active or not
func (r *Repository) CountChallenges(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM challenges`).Scan(&count)
	return count, err
}

// Participation is a user's enrollment in a challenge
type Participation struct {
	ChallengeID int64
	JoinedAt    time.Time
	Completed   bool
}

// JoinChallenge enrolls a user; joining twice is a no-op
func (r *Repository) JoinChallenge(ctx context.Context, userID, challengeID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO challenge_participants (user_id, challenge_id) VALUES (?, ?)
	`, userID, challengeID)
	return err
}

// CompleteChallenge marks an enrollment completed, keeping the first completion time
func (r *Repository) CompleteChallenge(ctx context.Context, userID, challengeID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE challenge_participants SET completed_at = ?
		WHERE user_id = ? AND challenge_id = ? AND completed_at IS NULL
	`, time.Now(), userID, challengeID)
	return err
}

// ListParticipations returns the user's enrollments keyed by challenge ID
func (r *Repository) ListParticipations(ctx context.Context, userID int64) (map[int64]Participation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT challenge_id, joined_at, completed_at IS NOT NULL
		FROM challenge_participants WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]Participation)
	for rows.Next() {
		var p Participation
		if err := rows.Scan(&p.ChallengeID, &p.JoinedAt, &p.Completed); err != nil {
			return nil, err
		}
		out[p.ChallengeID] = p
	}
	return out, rows.Err()
}

// CountCompletedChallenges counts the user's completed challenges
func (r *Repository) CountCompletedChallenges(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM challenge_participants WHERE user_id = ? AND completed_at IS NOT NULL
	`, userID).Scan(&count)
	return count, err
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ==================== Stats Methods ====================

// ProgramStats are community-wide totals
type ProgramStats struct {
	Residents     int     `json:"residents"`
	Reports       int     `json:"reports"`
	TotalPoints   int     `json:"total_points"`
	TotalWeightKg float64 `json:"total_weight_kg"`
}

// GetProgramStats returns community-wide totals
func (r *Repository) GetProgramStats(ctx context.Context) (*ProgramStats, error) {
	var stats ProgramStats

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.Residents); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(points), 0) FROM reports
	`).Scan(&stats.Reports, &stats.TotalPoints); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(weight_kg), 0) FROM report_items
	`).Scan(&stats.TotalWeightKg); err != nil {
		return nil, err
	}

	return &stats, nil
}

// ==================== Database Management Methods ====================

// validTables defines which tables can be safely cleared
var validTables = map[string]bool{
	"report_items": true, "reports": true, "challenge_participants": true,
	"challenges": true, "settings": true,
}

// ClearTable clears all data from a table
// Only allows clearing whitelisted tables to prevent SQL injection
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	if !validTables[table] {
		return ErrInvalidTable
	}

	// Safe to use string concatenation now that we've validated the table name
	_, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}
