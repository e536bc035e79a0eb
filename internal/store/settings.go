package store

import (
	"database/sql"
	"errors"
)

const keyAccessToken = "access_token"

// SetSetting stores value under key, replacing any previous value.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, nowMillis())
	return err
}

// Setting returns the value stored under key, or ErrNotFound.
func (db *DB) Setting(key string) (string, error) {
	var v string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

// DeleteSetting removes key. Missing keys are not an error.
func (db *DB) DeleteSetting(key string) error {
	_, err := db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

// SaveToken persists the backend access token for this profile.
func (db *DB) SaveToken(token string) error {
	return db.SetSetting(keyAccessToken, token)
}

// LoadToken returns the stored access token, or "" when none is saved.
func (db *DB) LoadToken() (string, error) {
	tok, err := db.Setting(keyAccessToken)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return tok, err
}

// ClearToken forgets the stored access token.
func (db *DB) ClearToken() error {
	return db.DeleteSetting(keyAccessToken)
}
