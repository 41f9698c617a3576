package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
)

// WriteDocument serializes tree to path. The data goes to a temporary file in
// the same directory which is renamed over path on success, so a failed write
// never leaves a partial file behind.
func WriteDocument(path string, tree *chunk.Tree) error {
	return writeAtomic(path, tree.Bytes())
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, removeIfExists(tmp.Name()))
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return multierr.Append(fmt.Errorf("writing %s: %w", tmp.Name(), err), tmp.Close())
	}
	// CreateTemp uses 0600
	if err := tmp.Chmod(0644); err != nil {
		return multierr.Append(fmt.Errorf("chmod %s: %w", tmp.Name(), err), tmp.Close())
	}
	if err := tmp.Sync(); err != nil {
		return multierr.Append(fmt.Errorf("syncing %s: %w", tmp.Name(), err), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
