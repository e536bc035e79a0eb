package store

// RememberFilter records a filter value typed into a table, most recent wins.
func (db *DB) RememberFilter(table, field, value string) error {
	if value == "" {
		return nil
	}
	_, err := db.Exec(`
		INSERT INTO recent_filters (table_name, field, value, used_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(table_name, field, value) DO UPDATE SET used_at = excluded.used_at`,
		table, field, value, nowMillis())
	return err
}

// RecentFilters returns up to limit distinct values for table/field, newest first.
func (db *DB) RecentFilters(table, field string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Query(`
		SELECT value FROM recent_filters
		WHERE table_name = ? AND field = ?
		ORDER BY used_at DESC, rowid DESC LIMIT ?`, table, field, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
