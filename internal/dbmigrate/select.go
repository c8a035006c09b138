package dbmigrate

import (
	"errors"

	"github.com/nvarma/eldercare-hub/internal/config"
)

const DefaultMigrationsDir = "migrations"

// Migration source labels, returned so callers can log which URL won.
const (
	SourceDirect = "DATABASE_URL_DIRECT"
	SourceURL    = "DATABASE_URL"
	SourcePooled = "DATABASE_URL_POOLED"
)

var (
	ErrDirectRequired = errors.New("DATABASE_URL_DIRECT is required for DDL/migrations")
	ErrNoDatabaseURL  = errors.New("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
)

// SelectDatabaseURL picks the connection URL for running migrations.
// DDL prefers the direct connection: DIRECT > DATABASE_URL > POOLED, the last
// one with a warning since pooled endpoints (pgbouncer and friends) do not
// handle DDL reliably. With requireDirect set (startup migrations), only
// DATABASE_URL_DIRECT is accepted.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (dbURL, source, warning string, err error) {
	if requireDirect {
		if cfg.DatabaseURLDirect == "" {
			return "", "", "", ErrDirectRequired
		}
		return cfg.DatabaseURLDirect, SourceDirect, "", nil
	}

	switch {
	case cfg.DatabaseURLDirect != "":
		return cfg.DatabaseURLDirect, SourceDirect, "", nil
	case cfg.DatabaseURLRaw != "":
		return cfg.DatabaseURLRaw, SourceURL, "", nil
	case cfg.DatabaseURLPooled != "":
		warning = "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT"
		return cfg.DatabaseURLPooled, SourcePooled, warning, nil
	default:
		return "", "", "", ErrNoDatabaseURL
	}
}
