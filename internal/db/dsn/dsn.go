// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/atelier-market/admin-console/internal/config"
)

// MySQL builds the Data Source Name of a MySQL connection.
func MySQL(dbCfg config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Name,
	)

	if dbCfg.Extras != "" {
		out += "?" + dbCfg.Extras
	}

	return out
}

// Postgres builds the keyword/value connection string of a PostgreSQL connection.
// Extras are appended as given, e.g. "sslmode=disable TimeZone=UTC".
func Postgres(dbCfg config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Name,
	)

	if extras := strings.TrimSpace(dbCfg.Extras); extras != "" {
		out += " " + extras
	}

	return out
}
