package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WorkDirs hands out per-request scratch directories under Root.
// Each directory is named with a random UUID, so concurrent requests never collide.
// Directories that outlive MaxAge (eg because the process crashed mid-request)
// are swept up by a later call to New.
type WorkDirs struct {
	Root string

	lock            sync.Mutex // guards lastCleanup
	lastCleanup     time.Time
	cleanupInterval time.Duration
	maxAge          time.Duration
}

// Creates the root directory, and wipes any work directories left over from a previous run.
// Entries in root that were not created by New are left alone.
func NewWorkDirs(root string, maxAge time.Duration) (*WorkDirs, error) {
	if err := os.MkdirAll(root, 0777); err != nil {
		return nil, fmt.Errorf("Failed to create work directory '%v': %w", root, err)
	}

	for _, fn := range ownDirs(root) {
		os.RemoveAll(fn)
	}
	return &WorkDirs{
		Root:            root,
		lastCleanup:     time.Now(),
		cleanupInterval: maxAge,
		maxAge:          maxAge,
	}, nil
}

// New creates a new, empty scratch directory and returns its path.
// The caller must call Remove when finished.
func (w *WorkDirs) New() (string, error) {
	w.lock.Lock()
	if time.Since(w.lastCleanup) > w.cleanupInterval {
		w.lastCleanup = time.Now()
		go w.cleanOld()
	}
	w.lock.Unlock()

	dir := filepath.Join(w.Root, uuid.NewString())
	if err := os.Mkdir(dir, 0777); err != nil {
		return "", fmt.Errorf("Failed to create work directory: %w", err)
	}
	return dir, nil
}

// Remove deletes a directory created by New, along with everything inside it
func (w *WorkDirs) Remove(dir string) error {
	if filepath.Dir(dir) != filepath.Clean(w.Root) || !isWorkDirName(filepath.Base(dir)) {
		return fmt.Errorf("'%v' is not a work directory of %v", dir, w.Root)
	}
	return os.RemoveAll(dir)
}

// this must not touch any shared mutable state, or take the lock
func (w *WorkDirs) cleanOld() {
	for _, fn := range ownDirs(w.Root) {
		st, err := os.Stat(fn)
		if err == nil && time.Since(st.ModTime()) > w.maxAge {
			os.RemoveAll(fn)
		}
	}
}

func isWorkDirName(name string) bool {
	_, err := uuid.Parse(name)
	return err == nil && len(name) == 36
}

// ownDirs returns the directories in root whose names look like they came from New
func ownDirs(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	dirs := []string{}
	for _, e := range entries {
		if e.IsDir() && isWorkDirName(e.Name()) {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	return dirs
}
