// Package dbfile loads and saves labels databases on disk
package dbfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/labelsdb/pkg/labelsdb"
)

const (
	FilePerms = 0o644
	tmpSuffix = ".tmp-*"
)

// Load reads and decodes the database at path
func Load(path string, logger hclog.Logger) (*labelsdb.Container, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("📂 Read database", "path", path, "size", len(data))

	c, err := labelsdb.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	logger.Debug("✅ Decoded database", "entries", len(c.Entries))
	return c, nil
}

// Save encodes c and replaces the file at path.
//
// The container is encoded before anything touches the disk, then written to
// a temporary file in the same directory and renamed over path. Any failure
// leaves the previous file as it was.
func Save(path string, c *labelsdb.Container, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	data, err := labelsdb.Encode(c)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return WriteAtomic(path, data, logger)
}

// WriteAtomic writes data to a sibling temp file and moves it over path
func WriteAtomic(path string, data []byte, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	dir := filepath.Dir(path)
	if err := checkDiskSpace(dir, int64(len(data)), logger); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+tmpSuffix)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Debug("⚠️ Failed to remove temp file", "path", tmpPath, "error", rmErr)
		}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, FilePerms); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := atomicReplace(tmpPath, path, logger); err != nil {
		cleanup()
		return err
	}

	logger.Info("💾 Saved database", "path", path, "size", len(data))
	return nil
}
