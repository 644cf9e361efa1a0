// Package database owns the SQLite connection behind the cue run history.
//
// Open configures WAL mode and a busy timeout through the connection string
// and pins the pool to one connection, matching SQLite's single-writer
// model. Migrate applies the embedded, additive-only schema on every boot;
// applied versions are tracked in schema_migrations, so re-running is safe.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// The wrapper embeds *sql.DB; repositories query it directly with
// parameterised statements.
package database
