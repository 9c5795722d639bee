package workdir

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWorkDirs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "work")
	stale := filepath.Join(root, "0b5e7a4c-2f4e-4c1b-9a53-6f0d1c2e3b4a")
	require.NoError(t, os.MkdirAll(stale, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "video.mp4"), []byte("x"), 0644))

	w, err := NewWorkDirs(root, time.Hour)
	require.NoError(t, err)
	_, err = os.Stat(stale)
	require.ErrorIs(t, err, os.ErrNotExist)

	a, err := w.New()
	require.NoError(t, err)
	b, err := w.New()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.Equal(t, root, filepath.Dir(a))

	require.NoError(t, os.WriteFile(filepath.Join(a, "video.mp4"), []byte("x"), 0644))
	require.NoError(t, w.Remove(a))
	_, err = os.Stat(a)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.Error(t, w.Remove(t.TempDir()))
	require.NoError(t, w.Remove(b))
}

// Pointing the work directory at a shared location such as /tmp must not destroy anything else there
func TestWorkDirsLeaveForeignEntries(t *testing.T) {
	root := t.TempDir()
	foreign := []string{
		filepath.Join(root, "stale"),
		filepath.Join(root, "0b5e7a4c2f4e4c1b9a536f0d1c2e3b4a"), // uuid.Parse accepts this, but New never makes it
		filepath.Join(root, "{0b5e7a4c-2f4e-4c1b-9a53-6f0d1c2e3b4a}"),
	}
	for _, d := range foreign {
		require.NoError(t, os.MkdirAll(d, 0777))
	}
	notes := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("keep me"), 0644))

	w, err := NewWorkDirs(root, time.Hour)
	require.NoError(t, err)
	for _, d := range foreign {
		require.DirExists(t, d)
	}
	require.FileExists(t, notes)

	// Old foreign entries also survive the age-based sweep
	old := time.Now().Add(-2 * time.Hour)
	oldOwn, err := w.New()
	require.NoError(t, err)
	for _, fn := range append(foreign, notes, oldOwn) {
		require.NoError(t, os.Chtimes(fn, old, old))
	}
	w.cleanOld()
	for _, d := range foreign {
		require.DirExists(t, d)
	}
	require.FileExists(t, notes)
	require.NoDirExists(t, oldOwn)

	require.Error(t, w.Remove(foreign[0]))
	require.DirExists(t, foreign[0])
}
