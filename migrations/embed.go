// Package migrations carries the run-history schema, embedded so a deployed
// daemon needs no loose SQL files. Importing the package (blank import from
// main) registers the files with the database layer.
package migrations

import (
	"embed"

	"github.com/ovationworks/cueboard-core/internal/infrastructure/database"
)

//go:embed *.up.sql
var schemaFS embed.FS

func init() {
	database.MigrationsFS = schemaFS
	database.MigrationsDir = "."
}
