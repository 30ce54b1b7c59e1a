package env

import (
	"os"
	"path/filepath"
	"testing"

	"lens-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})
}

func TestNewEnvService_LoadsDotEnvAndOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("LENSAGENT_TEST_BASE=base\nLENSAGENT_TEST_OVERRIDE=from-env\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"),
		[]byte("LENSAGENT_TEST_OVERRIDE=from-overlay\n"), 0o600))
	unsetAfter(t, "LENSAGENT_TEST_BASE", "LENSAGENT_TEST_OVERRIDE")
	t.Setenv("APP_ENV", "test")

	svc := NewEnvService(dir, logger.NewNop())

	assert.Equal(t, "test", svc.AppEnv())
	assert.Equal(t, "base", svc.Get("LENSAGENT_TEST_BASE"))
	assert.Equal(t, "from-overlay", svc.Get("LENSAGENT_TEST_OVERRIDE"))
}

func TestNewEnvService_ProcessEnvWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("LENSAGENT_TEST_KEEP=file\n"), 0o600))
	t.Setenv("LENSAGENT_TEST_KEEP", "process")
	t.Setenv("APP_ENV", "")

	svc := NewEnvService(dir, logger.NewNop())

	assert.Equal(t, "dev", svc.AppEnv())
	assert.Equal(t, "process", svc.Get("LENSAGENT_TEST_KEEP"))
}

func TestEnvService_TypedGetters(t *testing.T) {
	svc := &EnvService{appEnv: "dev"}
	t.Setenv("LENSAGENT_TEST_BOOL", "true")
	t.Setenv("LENSAGENT_TEST_BAD_BOOL", "nope")
	t.Setenv("LENSAGENT_TEST_INT", "37111")
	t.Setenv("LENSAGENT_TEST_BAD_INT", "x")

	assert.True(t, svc.GetBool("LENSAGENT_TEST_BOOL", false))
	assert.True(t, svc.GetBool("LENSAGENT_TEST_BAD_BOOL", true))
	assert.False(t, svc.GetBool("LENSAGENT_TEST_MISSING", false))
	assert.Equal(t, int64(37111), svc.GetInt64("LENSAGENT_TEST_INT", 0))
	assert.Equal(t, int64(7), svc.GetInt64("LENSAGENT_TEST_BAD_INT", 7))
	assert.Equal(t, "fallback", svc.GetWithDefault("LENSAGENT_TEST_MISSING", "fallback"))
}
