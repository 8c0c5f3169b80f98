package database

import (
	"github.com/lordralex/ballot/api/env"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Postgres struct {
	Dialect
}

func (*Postgres) Load() gorm.Dialector {
	connString := env.Get("database.url")

	if connString == "" {
		connString = "host=localhost user=discord password=discord dbname=discord sslmode=disable"
	}

	return postgres.Open(connString)
}

func init() {
	dialects["postgres"] = &Postgres{}
}
