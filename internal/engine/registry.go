package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// OwnerDirPrefix names the per-process directory that holds a process's
// sessions: <root>/tda-proc-<pid>.
const OwnerDirPrefix = "tda-proc-"

// SessionDirPrefix names every session directory a Registry creates.
const SessionDirPrefix = "tda-session-"

// Registry tracks the on-disk channels engine sessions use to hand results
// back to the adapter. It is reset once when discovery starts and torn down
// once when it ends. Sessions live under a directory owned by the current
// process so concurrent runs sharing a root never touch each other's work.
type Registry struct {
	root  string
	owner string

	mu   sync.Mutex
	dirs map[string]struct{}
}

// NewRegistry creates a Registry rooted at root, or the system temp dir
// when root is empty.
func NewRegistry(root string) *Registry {
	if root == "" {
		root = os.TempDir()
	}
	return &Registry{
		root:  root,
		owner: filepath.Join(root, OwnerDirPrefix+strconv.Itoa(os.Getpid())),
		dirs:  make(map[string]struct{}),
	}
}

// Reset forgets registered sessions and removes the session directories of
// processes that are no longer running. Directories of live processes,
// this one included, are left alone.
func (r *Registry) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owners, err := filepath.Glob(filepath.Join(r.root, OwnerDirPrefix+"*"))
	if err != nil {
		return fmt.Errorf("list stale sessions: %w", err)
	}
	var errs []error
	for _, dir := range owners {
		pid, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(dir), OwnerDirPrefix))
		if err != nil || pid <= 0 || processAlive(pid) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}
	r.dirs = make(map[string]struct{})
	return errors.Join(errs...)
}

// Open creates and registers a new session directory.
func (r *Registry) Open() (string, error) {
	if err := os.MkdirAll(r.owner, 0755); err != nil {
		return "", fmt.Errorf("create session root: %w", err)
	}
	dir, err := os.MkdirTemp(r.owner, SessionDirPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}

	r.mu.Lock()
	r.dirs[dir] = struct{}{}
	r.mu.Unlock()
	return dir, nil
}

// Release removes a session directory and forgets it.
func (r *Registry) Release(dir string) error {
	r.mu.Lock()
	delete(r.dirs, dir)
	r.mu.Unlock()

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove session dir: %w", err)
	}
	return nil
}

func (r *Registry) active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dirs)
}

// Teardown releases every registered session. Calling it again is a no-op.
func (r *Registry) Teardown() error {
	r.mu.Lock()
	dirs := make([]string, 0, len(r.dirs))
	for dir := range r.dirs {
		dirs = append(dirs, dir)
	}
	r.dirs = make(map[string]struct{})
	r.mu.Unlock()

	var errs []error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}
	// Only succeeds once no other registry in this process holds a session.
	_ = os.Remove(r.owner)
	return errors.Join(errs...)
}
