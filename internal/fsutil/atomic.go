// Package fsutil holds filesystem helpers shared across packages.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/bottle/internal/messages"
)

var (
	createTemp = os.CreateTemp
	rename     = os.Rename
	chmod      = os.Chmod
)

// WriteFileAtomic writes data to a temp file in the target directory and renames it into place.
// Readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := createTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.FsutilCreateTempFmt, path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilWriteTempFmt, path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilSyncTempFmt, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.FsutilCloseTempFmt, path, err)
	}
	if err := chmod(tmpName, perm); err != nil {
		return fmt.Errorf(messages.FsutilChmodTempFmt, path, err)
	}
	if err := rename(tmpName, path); err != nil {
		return fmt.Errorf(messages.FsutilRenameTempFmt, path, err)
	}
	committed = true
	return nil
}
