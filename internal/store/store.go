// Package store writes the managed YAML files, keeping a timestamped copy
// of whatever was on disk before each write.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rileyhilliard/pem/internal/errors"
)

// BackupTimeFormat is the layout of the suffix appended to backup copies.
const BackupTimeFormat = "20060102150405"

// Writer persists file contents. The zero value writes with backups enabled
// and uses time.Now for backup names.
type Writer struct {
	// DisableBackup skips the ".bak.<timestamp>" copy.
	DisableBackup bool

	// Now is the clock used for backup names. Defaults to time.Now.
	Now func() time.Time
}

// BackupPath returns the backup file name for path at t.
func BackupPath(path string, t time.Time) string {
	return path + ".bak." + t.Format(BackupTimeFormat)
}

// Write replaces the content of path with data. If path already exists it is
// first copied to BackupPath(path, now). The file is rewritten in place so a
// container bind-mounting the single file keeps seeing it.
// Returns the backup path, or "" when no backup was made.
func (w Writer) Write(path string, data []byte) (string, error) {
	mode := os.FileMode(0644)
	var backup string

	info, err := os.Stat(path)
	switch {
	case err == nil:
		mode = info.Mode().Perm()
		if !w.DisableBackup {
			backup = BackupPath(path, w.now())
			if err := copyFile(path, backup, mode); err != nil {
				return "", errors.WrapWithCode(err, errors.ErrSave,
					fmt.Sprintf("Couldn't back up %s", path),
					"Check that the directory is writable, or disable backups with backup: false.")
			}
		}
	case os.IsNotExist(err):
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return "", errors.WrapWithCode(err, errors.ErrSave,
					fmt.Sprintf("Couldn't create directory %s", dir),
					"Check that you have write permissions.")
			}
		}
	default:
		return "", errors.WrapWithCode(err, errors.ErrSave,
			fmt.Sprintf("Couldn't access %s", path),
			"Check file permissions.")
	}

	if err := os.WriteFile(path, data, mode); err != nil {
		return backup, errors.WrapWithCode(err, errors.ErrSave,
			fmt.Sprintf("Couldn't write %s", path),
			"Check that you have write permissions.")
	}

	return backup, nil
}

func (w Writer) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
