package secret

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestEnvStore_Precedence(t *testing.T) {
	dir := t.TempDir()
	first := writeEnv(t, dir, ".env.local", "BIZ_A=from-first\nBIZ_B=from-first\n")
	second := writeEnv(t, dir, ".env", "BIZ_B=from-second\nBIZ_C=\"quoted value\"\n")

	t.Setenv("BIZ_A", "from-env")

	s := NewEnvStore(first, second, filepath.Join(dir, "missing.env"))
	for key, want := range map[string]string{
		"BIZ_A": "from-env",
		"BIZ_B": "from-first",
		"BIZ_C": "quoted value",
	} {
		v, err := s.Get(key)
		require.NoError(t, err)
		assert.Equal(t, want, string(v), key)
	}

	v, err := s.Get("BIZ_UNSET_KEY")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestEnvStore_DefaultFile(t *testing.T) {
	s := NewEnvStore()
	assert.Equal(t, []string{DefaultEnvFile}, s.Files)
}

func TestEnvStore_UnreadableFile(t *testing.T) {
	s := NewEnvStore(t.TempDir()) // a directory, not a file
	_, err := s.Get("BIZ_UNSET_KEY")
	assert.Error(t, err)
}
