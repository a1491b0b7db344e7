package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// Get returns the value stored under key.
// Returns ErrNotFound if the key is absent.
func (b *Backend) Get(key string) (string, error) {
	if key == "" {
		return "", types.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.handle()
	if err != nil {
		return "", err
	}

	var value string
	err = db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", types.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (b *Backend) Set(key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.handle()
	if err != nil {
		return err
	}

	_, err = db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (b *Backend) Delete(key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.handle()
	if err != nil {
		return err
	}
	if _, err := db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// SetMany writes all pairs in one transaction.
func (b *Backend) SetMany(pairs map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.handle()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	now := time.Now().UTC().Format(timeLayout)
	for k, v := range pairs {
		if k == "" {
			tx.Rollback()
			return types.ErrInvalidKey
		}
		if _, err := tx.Exec(
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
             ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			k, v, now,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("setting %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// DeleteMany removes every listed key in one transaction.
func (b *Backend) DeleteMany(keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.handle()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, k := range keys {
		if _, err := tx.Exec("DELETE FROM kv WHERE key = ?", k); err != nil {
			tx.Rollback()
			return fmt.Errorf("deleting %s: %w", k, err)
		}
	}
	return tx.Commit()
}
