// Package repdb holds all the migrations for the reputation database
package repdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the reputation database
var Migrations = migrate.NewMigrations()
