// Package prefs is the durable local preference store: favorites, the capped
// compare list, the anonymous user identity, the remembered notification
// email and a cached copy of the user's alerts. All mutations are synchronous
// and immediately durable; volume is tiny and writes are user-driven.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/buscar-app/buscar/internal/common"
	"github.com/buscar-app/buscar/internal/model"
)

// CompareLimit is the hard cap on the compare list. Adding a fifth listing is
// rejected, never silently trimmed.
const CompareLimit = 4

// Settings keys.
const (
	keyUserID = "user_id"
	keyEmail  = "email"
)

// Store persists preferences in a local SQLite database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (and if needed creates) the preference database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: dbPath cannot be empty", common.ErrInvalidConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping preference store: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ToggleFavorite flips membership for the given listing id and returns the
// new state. It always succeeds; favorites have no cap.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.New("listing id cannot be empty")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE car_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if removed > 0 {
		return false, nil
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO favorites (car_id) VALUES (?)`, id); err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return true, nil
}

// IsFavorite reports membership for one listing id.
func (s *Store) IsFavorite(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM favorites WHERE car_id = ?`, id)
}

// Favorites returns all favorite listing ids in insertion order.
func (s *Store) Favorites(ctx context.Context) ([]string, error) {
	return s.idList(ctx, `SELECT car_id FROM favorites ORDER BY added_at, car_id`)
}

// ClearFavorites removes every favorite.
func (s *Store) ClearFavorites(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM favorites`); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}

// ToggleCompare flips compare membership. Removing always succeeds; adding
// when the list already holds CompareLimit entries fails with
// common.ErrCompareListFull and leaves the list unchanged.
func (s *Store) ToggleCompare(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.New("listing id cannot be empty")
	}

	// Single-writer store, so read-check-insert needs no extra locking.
	res, err := s.db.ExecContext(ctx, `DELETE FROM compare WHERE car_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to toggle compare: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to toggle compare: %w", err)
	}
	if removed > 0 {
		return false, nil
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM compare`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count compare list: %w", err)
	}
	if count >= CompareLimit {
		return false, common.ErrCompareListFull
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO compare (car_id) VALUES (?)`, id); err != nil {
		return false, fmt.Errorf("failed to add to compare list: %w", err)
	}
	return true, nil
}

// InCompare reports compare membership for one listing id.
func (s *Store) InCompare(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM compare WHERE car_id = ?`, id)
}

// CompareList returns the compare list ids in insertion order.
func (s *Store) CompareList(ctx context.Context) ([]string, error) {
	return s.idList(ctx, `SELECT car_id FROM compare ORDER BY added_at, car_id`)
}

// ClearCompare empties the compare list.
func (s *Store) ClearCompare(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM compare`); err != nil {
		return fmt.Errorf("failed to clear compare list: %w", err)
	}
	return nil
}

// UserID returns the anonymous user identifier, generating and persisting it
// on first access. Every later call returns the same value for the life of
// the store.
func (s *Store) UserID(ctx context.Context) (string, error) {
	id, err := s.setting(ctx, keyUserID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	id = "user_" + uuid.NewString()
	if err := s.setSetting(ctx, keyUserID, id); err != nil {
		return "", err
	}
	return id, nil
}

// Email returns the remembered notification email, empty when never set.
func (s *Store) Email(ctx context.Context) (string, error) {
	return s.setting(ctx, keyEmail)
}

// SetEmail remembers the notification email for alert pre-fill.
func (s *Store) SetEmail(ctx context.Context, email string) error {
	return s.setSetting(ctx, keyEmail, email)
}

// CacheAlerts replaces the local alerts mirror, shown when the backend is
// unreachable.
func (s *Store) CacheAlerts(ctx context.Context, alerts []model.PriceAlert) error {
	encoded, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to encode alerts cache: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM alerts_cache`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear alerts cache: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO alerts_cache (payload) VALUES (?)`, string(encoded)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to write alerts cache: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit alerts cache: %w", err)
	}
	return nil
}

// CachedAlerts returns the last cached alerts, or nil when nothing is cached.
func (s *Store) CachedAlerts(ctx context.Context) ([]model.PriceAlert, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM alerts_cache ORDER BY cached_at DESC LIMIT 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read alerts cache: %w", err)
	}

	var alerts []model.PriceAlert
	if err := json.Unmarshal([]byte(payload), &alerts); err != nil {
		return nil, fmt.Errorf("%w: alerts cache: %v", common.ErrStoreCorrupted, err)
	}
	return alerts, nil
}

func (s *Store) exists(ctx context.Context, query, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query membership: %w", err)
	}
	return true, nil
}

func (s *Store) idList(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ids: %w", err)
	}
	return ids, nil
}

func (s *Store) setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) setSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
