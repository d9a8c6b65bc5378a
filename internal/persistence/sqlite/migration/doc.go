// Package migration applies versioned SQL files to a SQLite database.
//
// Migration files are read from an fs.FS (normally an embed.FS compiled into
// the binary) and must be named {version}_{description}.sql, for example
// "001_initial_schema.sql". Each file runs inside its own transaction and is
// recorded in the schema_migrations table together with its SHA-256 checksum.
// A file whose content changed after it was applied is reported as
// ErrChecksumMismatch instead of being silently skipped.
//
// Example usage:
//
//	manager := migration.NewManager(migration.NewScanner(), migration.NewSQLiteExecutor(db), files, logger)
//	if _, err := manager.Run(ctx); err != nil {
//		return err
//	}
package migration
