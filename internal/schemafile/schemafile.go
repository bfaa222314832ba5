// Package schemafile reads coefficient schema files under a per-file
// advisory lock and seeds a starter schema when none exists.
package schemafile

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/kamusis/coef-cli/internal/scheme"
)

// DefaultLockTimeout bounds how long Read and Seed wait for the lock.
const DefaultLockTimeout = 5 * time.Second

const retryDelay = 50 * time.Millisecond

// ErrLocked is returned when the lock could not be taken before the timeout.
var ErrLocked = errors.New("schema file is locked")

// Starter is the document written by Seed.
const Starter = `{
  "vacancies": ["backend", "frontend", "devops"],
  "skills": {
    "go":         {"backend": 10, "devops": 4},
    "typescript": {"frontend": 9, "backend": 3},
    "docker":     {"devops": 8, "backend": 2},
    "css":        {"frontend": 7}
  }
}
`

// Options controls locking.
type Options struct {
	// LockTimeout defaults to DefaultLockTimeout when zero.
	LockTimeout time.Duration
	// LockDir overrides the directory that holds lock files.
	LockDir string
	Logger  *log.Logger
}

func (o Options) timeout() time.Duration {
	if o.LockTimeout <= 0 {
		return DefaultLockTimeout
	}
	return o.LockTimeout
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// Read returns the content of the schema file at path, read under a shared lock.
func Read(ctx context.Context, path string, opts Options) ([]byte, error) {
	unlock, err := acquire(ctx, path, opts, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read schema %s: %w", path, err)
	}
	return b, nil
}

// Load reads the schema file at path and builds the scheme from it.
func Load(ctx context.Context, path string, opts Options) (*scheme.CoefficientScheme, error) {
	b, err := Read(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	p := newProgress(opts.logger())
	s, err := scheme.New(bytes.NewReader(b), scheme.WithLogger(opts.logger()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.done(fmt.Sprintf("Loaded %d vacancies and %d skills from %s", s.NumVacancies(), s.NumSkills(), path))
	return s, nil
}

// Seed writes Starter to path under an exclusive lock unless path already
// exists. It reports whether the file was written.
func Seed(ctx context.Context, path string, opts Options) (bool, error) {
	unlock, err := acquire(ctx, path, opts, true)
	if err != nil {
		return false, err
	}
	defer unlock()

	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("cannot stat schema %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("cannot create schema dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(Starter), 0o644); err != nil {
		return false, fmt.Errorf("cannot write schema %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("cannot move schema into place: %w", err)
	}
	return true, nil
}

// acquire takes the lock guarding path and returns its release function.
func acquire(ctx context.Context, path string, opts Options, exclusive bool) (func(), error) {
	lockPath, err := LockPath(path, opts.LockDir)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout())
	defer cancel()

	l := flock.New(lockPath)
	var locked bool
	if exclusive {
		locked, err = l.TryLockContext(ctx, retryDelay)
	} else {
		locked, err = l.TryRLockContext(ctx, retryDelay)
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("cannot acquire schema lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock: %s)", ErrLocked, lockPath)
	}
	opts.logger().Debug("schema lock acquired", "lock", lockPath, "exclusive", exclusive)
	return func() { _ = l.Unlock() }, nil
}

// LockPath returns the lock file guarding schemaPath. Lock files live in
// dir, or in the per-user cache directory when dir is empty, so the schema's
// own directory never needs to be writable.
func LockPath(schemaPath, dir string) (string, error) {
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return "", fmt.Errorf("cannot resolve schema path: %w", err)
	}
	if dir == "" {
		dir, err = defaultLockDir()
		if err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create lock dir %s: %w", dir, err)
	}
	h := sha256.Sum256([]byte(abs))
	return filepath.Join(dir, hex.EncodeToString(h[:8])+".lock"), nil
}

func defaultLockDir() (string, error) {
	if cacheDir, err := os.UserCacheDir(); err == nil && cacheDir != "" {
		return filepath.Join(cacheDir, "coef", "locks"), nil
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".coef", "locks"), nil
	}
	return "", fmt.Errorf("cannot determine writable lock directory")
}
