package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	deperrors "github.com/matzehuels/depaudit/pkg/errors"
	"github.com/matzehuels/depaudit/pkg/httputil"
)

// Removal policy for [Workspace.Release].
const (
	ReleaseAttempts = 5
	ReleaseDelay    = 2 * time.Second
)

// Workspace is the scratch directory of one run.
type Workspace struct {
	root     string
	logger   *log.Logger
	attempts int
	delay    time.Duration
}

// NewWorkspace creates a uniquely named directory under base (the system
// temp dir when empty).
func NewWorkspace(base string, logger *log.Logger) (*Workspace, error) {
	if base == "" {
		base = os.TempDir()
	}
	if logger == nil {
		logger = log.Default()
	}
	root := filepath.Join(base, "depaudit-"+uuid.NewString())
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeInternal, err, "create workspace")
	}
	return &Workspace{root: root, logger: logger, attempts: ReleaseAttempts, delay: ReleaseDelay}, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string { return w.root }

var unsafeNameRE = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Dir returns the clone directory of the repository at position index.
// The index keeps repositories with the same name apart.
func (w *Workspace) Dir(index int, name string) string {
	return filepath.Join(w.root, fmt.Sprintf("%d-%s", index, unsafeNameRE.ReplaceAllString(name, "_")))
}

// Release removes the workspace. Failed removals are retried with a
// doubling delay after making the tree writable; the final failure is
// logged and returned as a CLEANUP_FAILED error naming the path.
func (w *Workspace) Release(ctx context.Context) error {
	err := httputil.Retry(ctx, w.attempts, w.delay, func() error {
		err := os.RemoveAll(w.root)
		if err == nil {
			return nil
		}
		w.logger.Warn("workspace removal failed, retrying", "path", w.root, "err", err)
		makeWritable(w.root)
		return httputil.Retryable(err)
	})
	if err != nil {
		w.logger.Warn("could not remove workspace, delete it manually", "path", w.root)
		return deperrors.Wrap(deperrors.ErrCodeCleanupFailed, err, "remove %s", w.root)
	}
	return nil
}

// makeWritable clears read-only bits that block removal (git pack files on
// some platforms).
func makeWritable(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		mode := os.FileMode(0o644)
		if d.IsDir() {
			mode = 0o755
		}
		_ = os.Chmod(path, mode)
		return nil
	})
}
