package postgres_test

import (
	"expo/config"
	"expo/infras/postgres"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpoint_DSN(t *testing.T) {
	endpoint := postgres.Endpoint{
		Host:     "db.local",
		Port:     "5432",
		Username: "expo",
		Password: "p@ss word",
		Name:     "exhibitions",
		Timezone: "Asia/Tokyo",
		SSLMode:  "disable",
	}

	tests := []struct {
		name  string
		extra url.Values
		want  map[string]string
	}{
		{
			name: "base parameters",
			want: map[string]string{"sslmode": "disable", "timezone": "Asia/Tokyo"},
		},
		{
			name:  "extra parameters are kept",
			extra: url.Values{"x-migrations-table": {"schema_migrations"}},
			want:  map[string]string{"sslmode": "disable", "x-migrations-table": "schema_migrations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := url.Parse(endpoint.DSN(tt.extra))
			assert.NoError(t, err)

			assert.Equal(t, "postgres", parsed.Scheme)
			assert.Equal(t, "db.local:5432", parsed.Host)
			assert.Equal(t, "/exhibitions", parsed.Path)

			password, _ := parsed.User.Password()
			assert.Equal(t, "p@ss word", password)

			for key, value := range tt.want {
				assert.Equal(t, value, parsed.Query().Get(key))
			}
		})
	}
}

func TestEndpoints_Prefix(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.Read.Name = "expo"
	cfg.DB.Postgres.Write.Name = "expo"
	cfg.DB.Postgres.Write.Host = "primary"

	read, write := postgres.Endpoints(cfg)

	assert.Equal(t, "test_expo", read.Name)
	assert.Equal(t, "test_expo", write.Name)
	assert.Equal(t, "primary", write.Host)
}

func TestConnection_CloseNil(t *testing.T) {
	var conn *postgres.Connection

	assert.NoError(t, conn.Close())
}
