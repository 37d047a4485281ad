package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/content"
	"github.com/alexanderramin/roadmap/internal/progress"
	"github.com/alexanderramin/roadmap/internal/render"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/alexanderramin/roadmap/internal/storage"
	"github.com/alexanderramin/roadmap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// isolateEnv keeps the developer's config file and ROADMAP_* variables out
// of command tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{
		"ROADMAP_CONFIG", "ROADMAP_CONTENT", "ROADMAP_STORAGE", "ROADMAP_DB",
		"ROADMAP_STATE_FILE", "ROADMAP_STORAGE_KEY", "ROADMAP_START_DATE",
		"ROADMAP_LOG_LEVEL", "ROADMAP_LOG_FORMAT", "ROADMAP_LOG_USE_CASES",
		"ROADMAP_SERVE_ADDR", "ROADMAP_EXPORT_DIR",
	} {
		t.Setenv(k, "")
	}
}

// testApp wires an App over the sample roadmap and an in-memory slot.
func testApp(t *testing.T) (*App, *progress.Store) {
	t.Helper()
	isolateEnv(t)

	r, err := content.Parse([]byte(testutil.SampleRoadmapJSON), content.FormatJSON)
	require.NoError(t, err)
	rd, err := render.New()
	require.NoError(t, err)

	store := progress.NewStore(storage.NewMemorySlot())
	return &App{
		Progress:      service.NewProgressService(r, store),
		Renderer:      rd,
		IsInteractive: func() bool { return false },
	}, store
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

func writeContent(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roadmap.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// --- views ---

func TestWeeksCmd(t *testing.T) {
	app, store := testApp(t)
	store.SetTask(context.Background(), "w1-d1-t1", true)

	out, err := executeCmd(t, app, "weeks")
	require.NoError(t, err)
	assert.Contains(t, out, "Foundations")
	assert.Contains(t, out, "Services")
	assert.Contains(t, out, "1/5")
}

func TestTreeCmd_SingleWeek(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "tree", "--week", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Handlers")
	assert.NotContains(t, out, "Install Go")
}

func TestTreeCmd_WeekOutOfRange(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "tree", "--week", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range (1-2)")
}

func TestTreeCmd_MarksDoneTasks(t *testing.T) {
	app, store := testApp(t)
	store.SetTask(context.Background(), "w1-d2-t1", true)

	out, err := executeCmd(t, app, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "✔ Structs")
	assert.Contains(t, out, "○ Interfaces")
}

func TestDayCmd_DefaultsToFirstDay(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "day")
	require.NoError(t, err)
	assert.Contains(t, out, "w1-d1")
	assert.Contains(t, out, "Install Go")
	assert.Contains(t, out, "Done when")
}

func TestDayCmd_ShowsCalendarDate(t *testing.T) {
	app, _ := testApp(t)
	t.Setenv("ROADMAP_START_DATE", "2026-01-05")

	out, err := executeCmd(t, app, "day", "w2-d1")
	require.NoError(t, err)
	assert.Contains(t, out, "Handlers")
	assert.Contains(t, out, "2026-01-12")
}

func TestDayCmd_UnknownDay(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "day", "w7-d1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrUnknownDay))
}

func TestStatusCmd_CountsStaleEntries(t *testing.T) {
	app, store := testApp(t)
	ctx := context.Background()
	store.SetTask(ctx, "w1-d1-t1", true)
	store.SetTask(ctx, "w9-d9-t9", true)

	out, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "1/6")
	assert.Contains(t, out, "1 stored task(s) no longer match the roadmap")
	assert.Contains(t, out, "• w9-d9-t9")
	assert.NotContains(t, out, "Last saved", "memory storage keeps no write time")
}

// --- mutations ---

func TestDoneCmd(t *testing.T) {
	app, store := testApp(t)

	out, err := executeCmd(t, app, "done", "w1-d1-t1")
	require.NoError(t, err)
	assert.Contains(t, out, "w1-d1-t1")
	assert.Contains(t, out, "marked done")
	assert.Contains(t, out, " 33%  1/3")
	assert.True(t, store.IsDone("w1-d1-t1"))
}

func TestDoneCmd_Idempotent(t *testing.T) {
	app, store := testApp(t)

	_, err := executeCmd(t, app, "done", "w1-d1-t1")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "done", "w1-d1-t1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestDoneCmd_UnknownIDChangesNothing(t *testing.T) {
	app, store := testApp(t)

	_, err := executeCmd(t, app, "done", "w1-d1-t1", "w1-d1-t9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrUnknownTask))
	assert.Equal(t, 0, store.Len())
}

func TestUndoCmd(t *testing.T) {
	app, store := testApp(t)
	store.SetTask(context.Background(), "w1-d2-t2", true)

	out, err := executeCmd(t, app, "undo", "w1-d2-t2")
	require.NoError(t, err)
	assert.Contains(t, out, "marked not done")
	assert.False(t, store.IsDone("w1-d2-t2"))
	assert.Empty(t, store.Snapshot(), "undo must not store false")
}

func TestToggleCmd_Twice(t *testing.T) {
	app, store := testApp(t)

	_, err := executeCmd(t, app, "toggle", "w2-d1-t1")
	require.NoError(t, err)
	assert.True(t, store.IsDone("w2-d1-t1"))

	out, err := executeCmd(t, app, "toggle", "w2-d1-t1")
	require.NoError(t, err)
	assert.Contains(t, out, "marked not done")
	assert.False(t, store.IsDone("w2-d1-t1"))
}

// --- reset ---

func TestResetCmd_NonInteractiveWithoutYesCancels(t *testing.T) {
	app, store := testApp(t)
	store.SetTask(context.Background(), "w1-d1-t1", true)

	out, err := executeCmd(t, app, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset cancelled")
	assert.Equal(t, 1, store.Len())
}

func TestResetCmd_Yes(t *testing.T) {
	app, store := testApp(t)
	ctx := context.Background()
	store.SetTask(ctx, "w1-d1-t1", true)
	store.SetTask(ctx, "w1-d1-t2", true)

	out, err := executeCmd(t, app, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "2 task(s) cleared")
	assert.Equal(t, 0, store.Len())
}

func TestResetCmd_InteractivePrompt(t *testing.T) {
	for _, answer := range []bool{false, true} {
		app, store := testApp(t)
		store.SetTask(context.Background(), "w1-d1-t1", true)
		app.IsInteractive = func() bool { return true }

		var asked string
		app.Confirm = func(title string) (bool, error) {
			asked = title
			return answer, nil
		}

		out, err := executeCmd(t, app, "reset")
		require.NoError(t, err)
		assert.Contains(t, asked, "1 completed task(s)")
		if answer {
			assert.Contains(t, out, "Progress reset")
			assert.Equal(t, 0, store.Len())
		} else {
			assert.Contains(t, out, "Reset cancelled.")
			assert.Equal(t, 1, store.Len())
		}
	}
}

func TestResetCmd_PromptError(t *testing.T) {
	app, store := testApp(t)
	store.SetTask(context.Background(), "w1-d1-t1", true)
	app.IsInteractive = func() bool { return true }
	app.Confirm = func(string) (bool, error) { return false, errors.New("tty gone") }

	_, err := executeCmd(t, app, "reset")
	require.Error(t, err)
	assert.Equal(t, 1, store.Len())
}

// --- validate ---

func TestValidateCmd_Valid(t *testing.T) {
	app, _ := testApp(t)
	path := writeContent(t, testutil.SampleRoadmapJSON)

	out, err := executeCmd(t, app, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestValidateCmd_ReportsProblems(t *testing.T) {
	app, _ := testApp(t)
	path := writeContent(t, `{"weeks": [{"title": "W", "days": []}]}`)

	out, err := executeCmd(t, app, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "problem(s) found")
	assert.Contains(t, out, "SCHEMA")
	assert.Contains(t, out, "title is required")
	assert.Contains(t, out, "week has no days")
}

func TestValidateCmd_UsesContentFlagWithoutConnecting(t *testing.T) {
	app, _ := testApp(t)
	app.Connect = func(context.Context, *App) (func() error, error) {
		t.Fatal("validate must not open the roadmap")
		return nil, nil
	}
	path := writeContent(t, testutil.SampleRoadmapJSON)

	out, err := executeCmd(t, app, "validate", "--content", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
}

func TestValidateCmd_MissingFile(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "validate", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading content")
}

// --- export ---

func TestExportCmd(t *testing.T) {
	app, store := testApp(t)
	store.SetTask(context.Background(), "w1-d1-t1", true)
	dir := t.TempDir()

	out, err := executeCmd(t, app, "export", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 7 page(s)")

	for _, name := range []string{"weeks.html", "tree.html", "calendar.html", "reference.html", "day-w2-d1.html"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	tree, err := os.ReadFile(filepath.Join(dir, "tree.html"))
	require.NoError(t, err)
	assert.Contains(t, string(tree), `data-page="tree"`)
}

func TestExportCmd_DirFromConfig(t *testing.T) {
	app, _ := testApp(t)
	dir := filepath.Join(t.TempDir(), "site")
	t.Setenv("ROADMAP_EXPORT_DIR", dir)

	_, err := executeCmd(t, app, "export")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "calendar.html"))
}

// --- root ---

func TestRoot_ConnectSeesFlags(t *testing.T) {
	app, _ := testApp(t)
	var seen config.Config
	closed := false
	app.Connect = func(_ context.Context, a *App) (func() error, error) {
		seen = a.Config
		return func() error { closed = true; return nil }, nil
	}

	_, err := executeCmd(t, app, "--content", "other.yaml", "--storage", "memory", "weeks")
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", seen.ContentPath)
	assert.Equal(t, config.StorageMemory, seen.Storage)

	require.NoError(t, app.Close())
	assert.True(t, closed)
	require.NoError(t, app.Close())
}

func TestRoot_ConnectError(t *testing.T) {
	app, _ := testApp(t)
	app.Connect = func(context.Context, *App) (func() error, error) {
		return nil, errors.New("content missing")
	}

	_, err := executeCmd(t, app, "weeks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content missing")
}

func TestRoot_InvalidStorageFlag(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "--storage", "cloud", "weeks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage")
}

func TestBoardCmd_RequiresTerminal(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "board")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}
