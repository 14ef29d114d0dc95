package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

// Timestamps are stored as fixed-width UTC text so that lexical order is
// chronological order and values round-trip to the nanosecond.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const DefaultTimeout = 10 * time.Second

type Storage struct {
	DB      *sql.DB
	timeout time.Duration
	now     func() time.Time
}

// Open connects to connString. file: URLs use the local SQLite driver, anything
// else (libsql://, https://) goes to Turso through libSQL.
func Open(connString, authToken string, timeout time.Duration) (*Storage, error) {
	if connString == "" {
		return nil, fmt.Errorf("database connection string is not set")
	}

	driver, dsn := driverFor(connString, authToken)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("Failed to open db: %w", err)
	}
	if driver == "sqlite" {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	s := New(db, timeout)
	if err := s.InitializeDB(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to initialize database: %w", err)
	}
	return s, nil
}

// New wraps an already opened database.
func New(db *sql.DB, timeout time.Duration) *Storage {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Storage{DB: db, timeout: timeout, now: time.Now}
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func driverFor(connString, authToken string) (string, string) {
	if strings.HasPrefix(connString, "file:") || connString == ":memory:" {
		return "sqlite", connString
	}
	if authToken != "" && !strings.Contains(connString, "authToken=") {
		sep := "?"
		if strings.Contains(connString, "?") {
			sep = "&"
		}
		connString += sep + "authToken=" + url.QueryEscape(authToken)
	}
	return "libsql", connString
}

// withTimeout bounds a single storage call.
func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Storage) stamp() time.Time {
	return s.now().UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Parse(time.RFC3339Nano, v)
	}
	return t, nil
}

func (s *Storage) InitializeDB(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS user_profiles (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL UNIQUE,
            fitness_goal TEXT NOT NULL,
            experience_level TEXT NOT NULL,
            available_time INTEGER NOT NULL,
            equipment TEXT NOT NULL,            -- JSON array
            dietary_restrictions TEXT NOT NULL, -- JSON array
            created_at TEXT NOT NULL
        );

        CREATE TABLE IF NOT EXISTS workout_plans (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            plan_name TEXT NOT NULL,
            exercises TEXT NOT NULL, -- JSON array of exercises
            duration INTEGER NOT NULL,
            difficulty TEXT NOT NULL,
            workout_type TEXT NOT NULL,
            created_at TEXT NOT NULL
        );

        CREATE INDEX IF NOT EXISTS idx_workout_plans_user
            ON workout_plans (user_id, created_at);

        CREATE TABLE IF NOT EXISTS meal_plans (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            plan_name TEXT NOT NULL,
            meals TEXT NOT NULL, -- JSON array of 7 days
            calories_target INTEGER NOT NULL,
            created_at TEXT NOT NULL
        );

        CREATE INDEX IF NOT EXISTS idx_meal_plans_user
            ON meal_plans (user_id, created_at);

        CREATE TABLE IF NOT EXISTS progress_logs (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            workout_plan_id TEXT NOT NULL,
            completed_at TEXT NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            rating INTEGER NOT NULL,
            created_at TEXT NOT NULL,
            FOREIGN KEY (workout_plan_id) REFERENCES workout_plans(id) ON DELETE CASCADE
        );

        CREATE INDEX IF NOT EXISTS idx_progress_logs_user
            ON progress_logs (user_id, completed_at);
    `)
	return err
}

// Tables lists every table the dump and rebuild commands handle.
var Tables = []string{"user_profiles", "workout_plans", "meal_plans", "progress_logs"}

func knownTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}
