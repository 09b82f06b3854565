package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

type UIPreferences struct {
	Compact      bool
	RelativeTime bool
	View         string
	Sort         string
}

func (r *Repository) SaveUIPreferences(ctx context.Context, prefs UIPreferences) error {
	values := map[string]string{
		"compact":       strconv.FormatBool(prefs.Compact),
		"relative_time": strconv.FormatBool(prefs.RelativeTime),
		"view":          prefs.View,
		"sort":          prefs.Sort,
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for key, value := range values {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO preferences (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, key, value); err != nil {
			return fmt.Errorf("save preference %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadUIPreferences returns the stored preferences. found is false when
// nothing was saved yet.
func (r *Repository) LoadUIPreferences(ctx context.Context) (prefs UIPreferences, found bool, err error) {
	get := func(key string) (string, error) {
		var value string
		err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("load preference %s: %w", key, err)
		}
		found = true
		return value, nil
	}

	compact, err := get("compact")
	if err != nil {
		return UIPreferences{}, false, err
	}
	relative, err := get("relative_time")
	if err != nil {
		return UIPreferences{}, false, err
	}
	prefs.View, err = get("view")
	if err != nil {
		return UIPreferences{}, false, err
	}
	prefs.Sort, err = get("sort")
	if err != nil {
		return UIPreferences{}, false, err
	}
	prefs.Compact = compact == "true"
	prefs.RelativeTime = relative == "true"
	return prefs, found, nil
}
