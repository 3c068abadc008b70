package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"desktop-cleaner/internal/errors"
	"desktop-cleaner/internal/trash"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is a fake home directory with a Desktop and a private trash.
type testEnv struct {
	home     string
	desktop  string
	trashDir string
}

func newTestEnv(t *testing.T, files ...string) *testEnv {
	t.Helper()
	root := t.TempDir()
	env := &testEnv{
		home:     filepath.Join(root, "home"),
		trashDir: filepath.Join(root, "Trash"),
	}
	env.desktop = filepath.Join(env.home, "Desktop")
	require.NoError(t, os.MkdirAll(env.desktop, 0755))

	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(env.desktop, name), []byte("content of "+name), 0644))
	}
	return env
}

// trashFlag points the command at the private trash.
func (e *testEnv) trashFlag() []string {
	return []string{"--trash-dir", e.trashDir}
}

func (e *testEnv) onDesktop(name string) bool {
	_, err := os.Lstat(filepath.Join(e.desktop, name))
	return err == nil
}

func (e *testEnv) inTrash(name string) bool {
	_, err := os.Lstat(filepath.Join(e.trashDir, "files", name))
	return err == nil
}

func brokenTrashDeps() deps {
	d := defaultDeps()
	d.newTrasher = func(string) (trash.Trasher, error) {
		return nil, fmt.Errorf("no trash here")
	}
	return d
}

func execute(ctx context.Context, d deps, args ...string) (string, string, error) {
	cmd := newRootCmd(d)
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestSweepCommandDryRun(t *testing.T) {
	env := newTestEnv(t, "notes.txt", "app.exe", ".hidden")
	require.NoError(t, os.Mkdir(filepath.Join(env.desktop, "projects"), 0755))

	args := append([]string{"sweep", "--home-dir", env.home, "--dry-run"}, env.trashFlag()...)
	out, _, err := execute(context.Background(), defaultDeps(), args...)
	require.NoError(t, err)

	assert.Contains(t, out, "dry-run")
	assert.Contains(t, out, "Would move: 2")
	assert.Contains(t, out, "Protected: 2")

	for _, name := range []string{"notes.txt", "app.exe", ".hidden", "projects"} {
		assert.True(t, env.onDesktop(name), "%s should be untouched", name)
	}
	assert.NoDirExists(t, filepath.Join(env.trashDir, "files"))
}

func TestSweepCommandRelocates(t *testing.T) {
	env := newTestEnv(t, "notes.txt", "photo.png", "launcher.desktop")
	require.NoError(t, os.Mkdir(filepath.Join(env.desktop, "projects"), 0755))

	args := append([]string{"sweep", "-h", env.home, "-k", "txt", "--output", "json"}, env.trashFlag()...)
	out, _, err := execute(context.Background(), defaultDeps(), args...)
	require.NoError(t, err)

	var report struct {
		TargetDir string `json:"target_dir"`
		Deleted   int    `json:"deleted"`
		Protected int    `json:"protected"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, env.desktop, report.TargetDir)
	assert.Equal(t, 2, report.Deleted)
	assert.Equal(t, 2, report.Protected)

	assert.True(t, env.onDesktop("notes.txt"))
	assert.True(t, env.onDesktop("launcher.desktop"))
	assert.False(t, env.onDesktop("photo.png"))
	assert.False(t, env.onDesktop("projects"))

	assert.True(t, env.inTrash("photo.png"))
	assert.True(t, env.inTrash("projects"))
	assert.FileExists(t, filepath.Join(env.trashDir, "info", "photo.png.trashinfo"))
}

func TestSweepCommandYAMLOutput(t *testing.T) {
	env := newTestEnv(t, "notes.txt")

	args := append([]string{"sweep", "-h", env.home, "-d", "-o", "yaml"}, env.trashFlag()...)
	out, _, err := execute(context.Background(), defaultDeps(), args...)
	require.NoError(t, err)
	assert.Contains(t, out, "target_dir: "+env.desktop)
	assert.Contains(t, out, "dry_run: true")
}

func TestSweepCommandMissingDesktop(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.RemoveAll(env.desktop))

	args := append([]string{"sweep", "-h", env.home}, env.trashFlag()...)
	_, _, err := execute(context.Background(), defaultDeps(), args...)
	require.Error(t, err)
	assert.True(t, errors.IsDirectoryUnreadable(err))
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestSweepCommandUnknownFormat(t *testing.T) {
	env := newTestEnv(t)

	args := append([]string{"sweep", "-h", env.home, "-o", "xml"}, env.trashFlag()...)
	_, _, err := execute(context.Background(), defaultDeps(), args...)
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestInvalidInterval(t *testing.T) {
	env := newTestEnv(t)

	args := append([]string{"sweep", "-h", env.home, "--interval", "0"}, env.trashFlag()...)
	_, _, err := execute(context.Background(), defaultDeps(), args...)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestTrashUnavailableIsFatal(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := execute(context.Background(), brokenTrashDeps(), "sweep", "-h", env.home)
	require.Error(t, err)
	assert.True(t, errors.IsFatalStartup(err))
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestHelpKeepsShortFlagForHomeDir(t *testing.T) {
	out, _, err := execute(context.Background(), defaultDeps(), "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "-h, --home-dir")
	assert.Contains(t, out, "-i, --interval")
	assert.Contains(t, out, "-d, --dry-run")
	assert.Contains(t, out, "--trash-dir")
	assert.Contains(t, out, "--help")
	assert.NotContains(t, out, "-h, --help")
}

func TestLoopStopsWhenContextIsDone(t *testing.T) {
	env := newTestEnv(t, "notes.txt", "app.exe")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		args := append([]string{"-h", env.home, "-i", "1"}, env.trashFlag()...)
		_, _, err := execute(ctx, defaultDeps(), args...)
		done <- err
	}()

	require.Eventually(t, func() bool { return env.inTrash("notes.txt") }, 5*time.Second, 20*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Equal(t, exitOK, exitCode(err))
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}

	assert.True(t, env.onDesktop("app.exe"))
	assert.False(t, env.onDesktop("notes.txt"))
}

func TestLoopFatalWithoutTrash(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := execute(context.Background(), brokenTrashDeps(), "-h", env.home)
	require.Error(t, err)
	assert.True(t, errors.IsFatalStartup(err))
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"success", nil, exitOK},
		{"interrupt", &signalExit{sig: syscall.SIGINT}, 130},
		{"terminate", &signalExit{sig: syscall.SIGTERM}, 143},
		{"wrapped signal", fmt.Errorf("loop: %w", &signalExit{sig: syscall.SIGTERM}), 143},
		{"invalid config", errors.NewConfigError("bad", "interval", errors.InvalidConfig, nil), exitUsage},
		{"fatal startup", errors.NewFatalStartupError("no home", nil), exitFailure},
		{"directory unreadable", errors.NewDirectoryUnreadable("/d", nil), exitFailure},
		{"plain error", fmt.Errorf("boom"), exitFailure},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.code, exitCode(c.err))
		})
	}
}
