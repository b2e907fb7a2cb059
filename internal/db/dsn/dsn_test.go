package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelier-market/admin-console/internal/config"
)

func TestMySQL(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      config.DB
		expected string
	}{
		{
			name:     "without extras",
			cfg:      config.DB{Host: "db", Port: 3306, User: "console", Password: "secret", Name: "admin"},
			expected: "console:secret@tcp(db:3306)/admin",
		},
		{
			name:     "with extras",
			cfg:      config.DB{Host: "db", Port: 3306, User: "console", Password: "secret", Name: "admin", Extras: "parseTime=true"},
			expected: "console:secret@tcp(db:3306)/admin?parseTime=true",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MySQL(tc.cfg))
		})
	}
}

func TestPostgres(t *testing.T) {
	cfg := config.DB{Host: "pg", Port: 5432, User: "console", Password: "secret", Name: "admin"}
	assert.Equal(t, "host=pg port=5432 user=console password=secret dbname=admin", Postgres(cfg))

	cfg.Extras = " sslmode=disable "
	assert.Equal(t, "host=pg port=5432 user=console password=secret dbname=admin sslmode=disable", Postgres(cfg))
}
