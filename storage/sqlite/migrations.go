package sqlite

func (s *Storage) RunMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS calendars (
		id VARCHAR NOT NULL PRIMARY KEY,
		owner_id VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT "",
		color VARCHAR NOT NULL DEFAULT "",
		timezone VARCHAR NOT NULL DEFAULT "UTC",
		created_at VARCHAR NOT NULL,
		modified_at VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id VARCHAR NOT NULL,
		calendar_id VARCHAR NOT NULL,
		title VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT "",
		location VARCHAR NOT NULL DEFAULT "",
		starts_at VARCHAR NOT NULL,
		ends_at VARCHAR NOT NULL,
		all_day INTEGER NOT NULL DEFAULT 0,
		recurrence_type VARCHAR NOT NULL DEFAULT "none",
		recurrence_interval INTEGER NOT NULL DEFAULT 1,
		recurrence_end_date VARCHAR NOT NULL DEFAULT "",
		recurrence_days_of_week VARCHAR NOT NULL DEFAULT "",
		exceptions VARCHAR NOT NULL DEFAULT "",
		created_at VARCHAR NOT NULL,
		updated_at VARCHAR NOT NULL,
		PRIMARY KEY (id),
		FOREIGN KEY (calendar_id) REFERENCES calendars (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_calendar ON events (calendar_id, starts_at)`,
}
