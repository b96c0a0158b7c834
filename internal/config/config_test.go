package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

func TestPort(t *testing.T) {
	t.Setenv("APP_PORT", "")
	assert.Equal(t, ":8080", Port())

	t.Setenv("APP_PORT", "9000")
	assert.Equal(t, ":9000", Port())

	t.Setenv("APP_PORT", "127.0.0.1:9000")
	assert.Equal(t, "127.0.0.1:9000", Port())
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example ,,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, AllowedOrigins())

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	assert.Empty(t, AllowedOrigins())
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("POSTGRES_HOST")

	_, err := DatabaseURL()
	assert.ErrorIs(t, err, ErrNoDatabase)

	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "gym")
	t.Setenv("POSTGRES_PASSWORD", "p@ss word")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("POSTGRES_DB", "episodes")
	t.Setenv("POSTGRES_SSLMODE", "require")

	dbURL, err := DatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://gym:p%40ss%20word@db:6543/episodes?sslmode=require", dbURL)

	t.Setenv("DATABASE_URL", "postgres://override")
	dbURL, err = DatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://override", dbURL)
}

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWTWithSecret([]byte("secret"))

	token, err := j.Sign("trainer-1")
	require.NoError(t, err)

	claims, err := j.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "trainer-1", claims.Subject)

	_, err = NewJWTWithSecret([]byte("other")).Parse(token)
	assert.Error(t, err)
}

func TestJWTSecretFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))
	t.Setenv("JWT_SECRET_FILE", path)

	j, err := NewJWT()
	require.NoError(t, err)
	assert.Equal(t, []byte("from-file"), j.secret)

	os.Unsetenv("JWT_SECRET_FILE")
	_, err = NewJWT()
	assert.ErrorIs(t, err, ErrNoJWTSecret)
}

func TestBoardDefaults(t *testing.T) {
	fallback := mines.Params{Rows: 9, Cols: 9, MineCount: 10}

	t.Setenv("MINESWEEPER_ROWS", "")
	t.Setenv("MINESWEEPER_COLS", "")
	t.Setenv("MINESWEEPER_MINES", "")
	t.Setenv("MINESWEEPER_SEED", "")
	params, seed, err := BoardDefaults(fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, params)
	assert.Nil(t, seed)

	t.Setenv("MINESWEEPER_ROWS", "5")
	t.Setenv("MINESWEEPER_MINES", "3")
	t.Setenv("MINESWEEPER_SEED", "42")
	params, seed, err = BoardDefaults(fallback)
	require.NoError(t, err)
	assert.Equal(t, mines.Params{Rows: 5, Cols: 9, MineCount: 3}, params)
	require.NotNil(t, seed)
	assert.Equal(t, int64(42), *seed)

	t.Setenv("MINESWEEPER_MINES", "45")
	_, _, err = BoardDefaults(fallback)
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)

	t.Setenv("MINESWEEPER_MINES", "three")
	_, _, err = BoardDefaults(fallback)
	assert.Error(t, err)
}
