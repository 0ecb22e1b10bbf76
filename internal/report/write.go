package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"nvdrivers/internal/drivers"
)

// ErrLocked is returned when another process is writing the same report.
var ErrLocked = errors.New("report is locked by another run")

// WriteFile renders records and replaces path with the result. It returns the
// number of bytes written.
func WriteFile(path string, records []drivers.Record, opts Options) (int64, error) {
	if path == "" {
		return 0, errors.New("report path is empty")
	}

	var buf bytes.Buffer
	if err := Render(&buf, records, opts); err != nil {
		return 0, fmt.Errorf("render report: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create report directory %q: %w", dir, err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return 0, fmt.Errorf("acquire report lock: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("create temp report: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	n, err := tmp.Write(buf.Bytes())
	if err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return 0, fmt.Errorf("chmod report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("replace report: %w", err)
	}
	return int64(n), nil
}
