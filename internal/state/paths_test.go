package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePath(t *testing.T) {
	tests := []struct {
		name    string
		workDir string
		want    string
	}{
		{
			name:    "world folder",
			workDir: "/srv/minecraft/world",
			want:    "/srv/minecraft/world/uuid_cache_world.json",
		},
		{
			name:    "trailing slash",
			workDir: "/srv/minecraft/survival/",
			want:    "/srv/minecraft/survival/uuid_cache_survival.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CachePath(tt.workDir))
		})
	}
}

func TestCachePath_DistinctPerDirectory(t *testing.T) {
	a := CachePath("/worlds/alpha")
	b := CachePath("/worlds/beta")
	assert.NotEqual(t, a, b)
}

func TestGetCachePath(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	path, err := GetCachePath()
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, CachePath(wd), path)
	assert.Equal(t, "uuid_cache_"+filepath.Base(wd)+".json", filepath.Base(path))
}

func TestLockPath(t *testing.T) {
	assert.Equal(t, "/w/uuid_cache_w.json.lock", LockPath("/w/uuid_cache_w.json"))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/w/playerdata", ResolvePath("/w", "./playerdata"))
	assert.Equal(t, "/data/out", ResolvePath("/w", "/data/out"))
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "data", "ghosts", "functions")

	require.NoError(t, EnsureDir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// idempotent
	require.NoError(t, EnsureDir(path))
}
