package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no config keys set.
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// t.Setenv restores every key afterwards, including ones .env loads.
	for _, key := range append(append([]string{}, keys...), "PATH_CONFIG") {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigMemoryDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ENCRYPTION_KEY", "AQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQE=")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "0 0 3 * * *", cfg.ReconcileSchedule)
	assert.Equal(t, "CLP", cfg.DefaultCurrency)
	assert.Equal(t, "America/Santiago", cfg.DefaultTimezone)
	assert.False(t, cfg.EnableGoogleSignIn)
	assert.False(t, cfg.IsRelease())
}

func TestLoadConfigFirestoreRequiresCredentials(t *testing.T) {
	isolate(t)
	t.Setenv("ENCRYPTION_KEY", "key")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "FIREBASE_PROJECT_ID")

	t.Setenv("FIREBASE_PROJECT_ID", "clubhub")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "GOOGLE_APPLICATION_CREDENTIALS")

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "FIREBASE_WEB_API_KEY")

	t.Setenv("FIREBASE_WEB_API_KEY", "web-key")
	t.Setenv("ENABLE_GOOGLE_SIGN_IN", "true")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.EnableGoogleSignIn)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	isolate(t)
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("ENCRYPTION_KEY", "key")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestLoadConfigReadsDotEnvAndYAML(t *testing.T) {
	isolate(t)
	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(".env", []byte("STORE_DRIVER=memory\nENCRYPTION_KEY=from-dotenv\n"), 0o600))
	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("PORT: \"9090\"\nDEFAULT_CURRENCY: USD\n"), 0o600))
	t.Setenv("PATH_CONFIG", yamlPath)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.EncryptionKey)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
}

func TestLoadConfigEnvironmentWinsOverDotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("STORE_DRIVER=memory\nENCRYPTION_KEY=from-dotenv\n"), 0o600))
	t.Setenv("ENCRYPTION_KEY", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.EncryptionKey)
}
