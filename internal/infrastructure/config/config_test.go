package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ecocare", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "ecocare", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, time.Hour, cfg.Vacuum.MaxAge)
		assert.Equal(t, 200, cfg.Vacuum.BatchSize)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.Equal(t, "ecocare-archive", cfg.Storage.Bucket)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
		assert.Equal(t, "warn", cfg.Log.SQLLevel)
		assert.Equal(t, 200*time.Millisecond, cfg.Log.SlowQuery)
	})

	t.Run("loads values from environment variables with ECOCARE prefix", func(t *testing.T) {
		t.Setenv("ECOCARE_APP_NAME", "test-app")
		t.Setenv("ECOCARE_APP_PORT", "9000")
		t.Setenv("ECOCARE_DATABASE_HOST", "testdb.local")
		t.Setenv("ECOCARE_DATABASE_PORT", "5433")
		t.Setenv("ECOCARE_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("ECOCARE_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("ECOCARE_VACUUM_MAX_AGE", "2h")
		t.Setenv("ECOCARE_STORAGE_BUCKET", "archive")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 2*time.Hour, cfg.Vacuum.MaxAge)
		assert.Equal(t, "archive", cfg.Storage.Bucket)
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		t.Setenv("ECOCARE_APP_ENV", "production")
		t.Setenv("ECOCARE_JWT_SECRET", "short")
		t.Setenv("ECOCARE_DATABASE_PASSWORD", "secret")
		t.Setenv("ECOCARE_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func loadTOML(t *testing.T, body string) (*Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(body)))
	return fromViper(v)
}

func TestFromViper_TOML(t *testing.T) {
	cfg, err := loadTOML(t, `
[storage]
endpoint = "http://minio:9000"
access_key = "minio"
secret_key = "minio123"
use_path_style = true
archive_enabled = true

[log]
sql_level = "info"
slow_query = "1s"

[vacuum]
enabled = true
interval = "5m"
batch_size = 50
`)
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000", cfg.Storage.Endpoint)
	assert.True(t, cfg.Storage.UsePathStyle)
	assert.True(t, cfg.Storage.ArchiveEnabled)
	assert.True(t, cfg.Vacuum.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Vacuum.Interval)
	assert.Equal(t, 50, cfg.Vacuum.BatchSize)
	assert.Equal(t, "info", cfg.Log.SQLLevel)
	assert.Equal(t, time.Second, cfg.Log.SlowQuery)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "idle connections above open connections",
			body:    "[database]\nmax_open_conns = 5\nmax_idle_conns = 10\n",
			wantErr: "max_idle_conns",
		},
		{
			name:    "archive without credentials",
			body:    "[storage]\narchive_enabled = true\n",
			wantErr: "storage.access_key",
		},
		{
			name:    "sampling ratio out of range",
			body:    "[telemetry]\nsampling_ratio = 1.5\n",
			wantErr: "sampling_ratio",
		},
		{
			name:    "profiling without server",
			body:    "[telemetry]\nprofiling_enabled = true\n",
			wantErr: "profiling_server_address",
		},
		{
			name:    "swagger in production",
			body:    "[app]\nenv = \"production\"\n[jwt]\nsecret = \"0123456789abcdef0123456789abcdef\"\n[database]\npassword = \"x\"\nsslmode = \"require\"\n[swagger]\nenabled = true\n",
			wantErr: "swagger",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadTOML(t, tt.body)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "eco", Password: "p@ss", DBName: "ecocare", SSLMode: "disable"}
	assert.Equal(t, "postgres://eco:p%40ss@db:5432/ecocare?sslmode=disable", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "redis", Port: 6380}
	assert.Equal(t, "redis:6380", r.Addr())
}
