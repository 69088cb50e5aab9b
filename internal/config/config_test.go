package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(false, "")
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:3001", cfg.BaseURL)
	assert.True(t, cfg.UseMemoryStore(), "no SURREALDB_URL should select the memory store")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("SURREALDB_URL", "ws://db.example:8000/rpc")
	t.Setenv("SURREALDB_NS", "prod")
	t.Setenv("SURREALDB_DB", "notesdb")

	cfg, err := LoadConfig(false, "")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "prod", cfg.SurrealNS)
	assert.Equal(t, "notesdb", cfg.SurrealDB)
	assert.False(t, cfg.UseMemoryStore(), "SURREALDB_URL set should select the durable store")
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("SURREALDB_URL", "ws://db.example:8000/rpc")

	cfg, err := LoadConfig(true, ":4000")
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.ListenAddr, "flag should beat env")
	assert.True(t, cfg.UseMemoryStore(), "--in-memory should force the memory store")
}

func TestLoadConfig_BaseURLTrailingSlash(t *testing.T) {
	t.Setenv("BASE_URL", "https://notes.example.com/")

	cfg, err := LoadConfig(false, "")
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com", cfg.BaseURL)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		ListenAddr:  " ",
		SurrealURL:  "http://not-a-websocket",
		SurrealUser: "root",
	}

	err := cfg.Validate()
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok, "error type should be *ValidationError, got %T", err)
	assert.GreaterOrEqual(t, len(vErr.Errors), 4, "all problems should be reported in one pass")
	assert.Contains(t, vErr.Error(), "LISTEN_ADDR")
	assert.Contains(t, vErr.Error(), "SURREALDB_URL")
	assert.Contains(t, vErr.Error(), "SURREALDB_USER")
}

func TestValidate_ValidSurrealConfig(t *testing.T) {
	cfg := &Config{
		ListenAddr:  ":3001",
		SurrealURL:  "wss://db.example/rpc",
		SurrealNS:   "notes",
		SurrealDB:   "noteapp",
		SurrealUser: "root",
		SurrealPass: "secret",
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CredentialsMustBePaired(t *testing.T) {
	cfg := &Config{
		ListenAddr:  ":3001",
		SurrealURL:  "ws://localhost:8000/rpc",
		SurrealNS:   "notes",
		SurrealDB:   "noteapp",
		SurrealPass: "secret",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SURREALDB_USER and SURREALDB_PASS must be set together")
}
