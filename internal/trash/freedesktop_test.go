package trash

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
}

func TestFreedesktopTrashFile(t *testing.T) {
	root := t.TempDir()
	desktop := filepath.Join(root, "Desktop")
	require.NoError(t, os.Mkdir(desktop, 0755))

	src := filepath.Join(desktop, "my notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	bin := &Freedesktop{Dir: filepath.Join(root, "Trash"), Now: fixedNow}
	require.NoError(t, bin.Trash(src))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source should be gone")

	content, err := os.ReadFile(filepath.Join(root, "Trash", "files", "my notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	info, err := os.ReadFile(filepath.Join(root, "Trash", "info", "my notes.txt.trashinfo"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(info)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[Trash Info]", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Path="))
	assert.Contains(t, lines[1], "my%20notes.txt")
	assert.Equal(t, "DeletionDate=2024-03-01T09:30:00", lines[2])
}

func TestFreedesktopTrashDirectory(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "old_project")
	require.NoError(t, os.MkdirAll(filepath.Join(project, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "src", "main.go"), []byte("package main"), 0644))

	bin := NewFreedesktop(filepath.Join(root, "Trash"))
	require.NoError(t, bin.Trash(project))

	_, err := os.Stat(project)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "Trash", "files", "old_project", "src", "main.go"))
	assert.NoError(t, err)
}

func TestFreedesktopNameCollision(t *testing.T) {
	root := t.TempDir()
	bin := &Freedesktop{Dir: filepath.Join(root, "Trash"), Now: fixedNow}

	for i := 0; i < 3; i++ {
		src := filepath.Join(root, "notes.txt")
		require.NoError(t, os.WriteFile(src, []byte{byte('a' + i)}, 0644))
		require.NoError(t, bin.Trash(src))
	}

	for _, name := range []string{"notes.txt", "notes.2.txt", "notes.3.txt"} {
		_, err := os.Stat(filepath.Join(root, "Trash", "files", name))
		assert.NoError(t, err, name)
		_, err = os.Stat(filepath.Join(root, "Trash", "info", name+".trashinfo"))
		assert.NoError(t, err, name)
	}
}

func TestFreedesktopMissingSource(t *testing.T) {
	root := t.TempDir()
	bin := NewFreedesktop(filepath.Join(root, "Trash"))

	err := bin.Trash(filepath.Join(root, "missing.txt"))
	require.Error(t, err)

	entries, _ := os.ReadDir(filepath.Join(root, "Trash", "info"))
	assert.Empty(t, entries, "no info file should be left behind")
}

func TestFreedesktopFailedMoveCleansInfo(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs POSIX permissions and a non-root user")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(locked, 0755))
	src := filepath.Join(locked, "notes.txt")
	require.NoError(t, os.WriteFile(src, nil, 0644))
	require.NoError(t, os.Chmod(locked, 0555))
	defer os.Chmod(locked, 0755)

	bin := NewFreedesktop(filepath.Join(root, "Trash"))
	require.Error(t, bin.Trash(src))

	entries, err := os.ReadDir(filepath.Join(root, "Trash", "info"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUniqueName(t *testing.T) {
	taken := map[string]bool{".bashrc": true, "a.txt": true, "a.2.txt": true}
	isTaken := func(name string) bool { return taken[name] }

	name, err := uniqueName("fresh.txt", isTaken)
	require.NoError(t, err)
	assert.Equal(t, "fresh.txt", name)

	name, err = uniqueName("a.txt", isTaken)
	require.NoError(t, err)
	assert.Equal(t, "a.3.txt", name)

	name, err = uniqueName(".bashrc", isTaken)
	require.NoError(t, err)
	assert.Equal(t, ".bashrc.2", name)
}

func TestNewSelectsBackend(t *testing.T) {
	trasher, err := New("")
	require.NoError(t, err)
	assert.IsType(t, System{}, trasher)

	dir := filepath.Join(t.TempDir(), "Trash")
	trasher, err = New(dir)
	require.NoError(t, err)
	require.IsType(t, &Freedesktop{}, trasher)
	assert.Equal(t, dir, trasher.(*Freedesktop).Dir)
}

func TestFunc(t *testing.T) {
	var got string
	var trasher Trasher = Func(func(path string) error {
		got = path
		return nil
	})
	require.NoError(t, trasher.Trash("/x"))
	assert.Equal(t, "/x", got)
}
