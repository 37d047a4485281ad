package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, storage string) config.Config {
	t.Helper()
	dir := t.TempDir()
	contentPath := filepath.Join(dir, "roadmap.json")
	require.NoError(t, os.WriteFile(contentPath, []byte(testutil.SampleRoadmapJSON), 0o644))

	cfg := config.Default()
	cfg.ContentPath = contentPath
	cfg.Storage = storage
	cfg.DBPath = filepath.Join(dir, "roadmap.db")
	cfg.StateFile = filepath.Join(dir, "progress.json")
	return cfg
}

func TestOpen_PersistsAcrossSessions(t *testing.T) {
	for _, storage := range []string{config.StorageSQLite, config.StorageFile} {
		t.Run(storage, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, storage)

			rt, err := Open(ctx, cfg, nil)
			require.NoError(t, err)
			require.NoError(t, rt.Progress.SetTask(ctx, "w1-d1-t2", true))
			require.NoError(t, rt.Close())

			rt, err = Open(ctx, cfg, nil)
			require.NoError(t, err)
			defer rt.Close()

			assert.True(t, rt.Store.IsDone("w1-d1-t2"))
			ov := rt.Progress.Overview(ctx)
			assert.Equal(t, 6, ov.Overall.Total)
			assert.Equal(t, 1, ov.Overall.Done)
			assert.Equal(t, 17, ov.Overall.Pct)
		})
	}
}

func TestOpen_MemoryStartsEmpty(t *testing.T) {
	ctx := context.Background()
	rt, err := Open(ctx, testConfig(t, config.StorageMemory), nil)
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, 0, rt.Store.Len())
	assert.Equal(t, "Go Backend Roadmap", rt.Roadmap.Title)
	assert.NotNil(t, rt.Renderer)
}

func TestOpen_CorruptStateFileIsEmptyProgress(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.StorageFile)
	require.NoError(t, os.WriteFile(cfg.StateFile, []byte(`{"roadmap_progress_v1": "{not json"}`), 0o644))

	rt, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer rt.Close()
	assert.Equal(t, 0, rt.Store.Len())
}

func TestOpen_MissingContent(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory)
	cfg.ContentPath = filepath.Join(t.TempDir(), "missing.json")

	_, err := Open(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestOpenSlot_UnknownStorage(t *testing.T) {
	cfg := testConfig(t, "cloud")
	_, _, err := OpenSlot(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown storage "cloud"`)
}

func TestRuntimeClose_Idempotent(t *testing.T) {
	rt, err := Open(context.Background(), testConfig(t, config.StorageSQLite), nil)
	require.NoError(t, err)
	require.NoError(t, rt.Close())
	require.NoError(t, rt.Close())
}
