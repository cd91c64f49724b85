package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresConfig_ConnectionStrings(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db",
		Port:     "5432",
		User:     "fleet",
		Password: "p@ss word",
		DBName:   "fleetpro",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=fleet password=p@ss word dbname=fleetpro sslmode=disable", cfg.DSN())
	assert.Equal(t, "postgres://fleet:p%40ss%20word@db:5432/fleetpro?sslmode=disable", cfg.DatabaseURL())
}
