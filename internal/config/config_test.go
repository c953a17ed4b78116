package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the config reads so that the developer's environment does not
// leak into the tests.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"CONTACTS_STORAGE", "CONTACTS_FILE", "CONTACTS_DSN",
		"DBUSER", "DBPWD", "DBHOST", "DBNAME",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "PORT", "GIN_LOGGING", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "data.bin", cfg.Storage.File)
	assert.Equal(t, 8080, cfg.Service.Port)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: sqlite
  dsn: /tmp/contacts.db
logging:
  level: debug
  format: json
service:
  port: 9090
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/contacts.db", cfg.Storage.DataSourceName())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 9090, cfg.Service.Port)
	// Values not present in the file keep their defaults.
	assert.Equal(t, "data.bin", cfg.Storage.File)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: ["), 0600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("storage", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONTACTS_STORAGE", "MySQL")
		t.Setenv("DBUSER", "dirk")
		t.Setenv("DBPWD", "secret")
		t.Setenv("DBHOST", "db:3306")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, BackendMySQL, cfg.Storage.Backend)
		assert.Equal(t, "dirk:secret@tcp(db:3306)/test?parseTime=true", cfg.Storage.DataSourceName())
	})

	t.Run("file name", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONTACTS_FILE", "book.bin")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "book.bin", cfg.Storage.File)
	})

	t.Run("service", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "8181")
		t.Setenv("GIN_LOGGING", "OFF")
		t.Setenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 8181, cfg.Service.Port)
		assert.False(t, cfg.Service.RequestLogging)
		assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Service.AllowOrigins)
	})

	t.Run("invalid port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "eighty")

		_, err := Load("")
		assert.ErrorContains(t, err, "PORT")
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "redis"
	assert.ErrorContains(t, cfg.Validate(), "invalid storage backend")

	cfg = DefaultConfig()
	cfg.Storage.File = ""
	assert.ErrorContains(t, cfg.Validate(), "file name")

	cfg = DefaultConfig()
	cfg.Service.Port = 0
	assert.ErrorContains(t, cfg.Validate(), "port")
}

func TestDataSourceName(t *testing.T) {
	storage := StorageConfig{
		Backend:    BackendPostgres,
		DBUser:     "dirk",
		DBPassword: "secret",
		DBHost:     "db:5432",
		DBName:     "contacts",
	}
	assert.Equal(t, "postgres://dirk:secret@db:5432/contacts", storage.DataSourceName())

	storage.Backend = BackendSQLite
	assert.Equal(t, "contacts.db", storage.DataSourceName())

	storage.DSN = "file:book.db"
	assert.Equal(t, "file:book.db", storage.DataSourceName())
}
