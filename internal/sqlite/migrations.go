package sqlite

func (s Storage) RunMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id VARCHAR NOT NULL PRIMARY KEY,
		platform VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		auth TEXT NOT NULL,
		last_fetch TIMESTAMP NULL DEFAULT NULL,
		last_status VARCHAR NOT NULL DEFAULT ""
	)`,
}
