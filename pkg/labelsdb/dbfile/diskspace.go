package dbfile

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ErrNoSpace reports that the target volume cannot hold the new file
var ErrNoSpace = errors.New("insufficient disk space")

// checkDiskSpace verifies dir's volume has room for need bytes. A volume
// that cannot be queried is not treated as full.
func checkDiskSpace(dir string, need int64, logger hclog.Logger) error {
	available, err := getAvailableDiskSpace(dir)
	if err != nil {
		logger.Warn("⚠️ Could not check disk space", "dir", dir, "error", err)
		return nil
	}

	neededMB := float64(need) / (1024 * 1024)
	availableMB := float64(available) / (1024 * 1024)
	logger.Trace("💾 Disk space check", "needed_mb", fmt.Sprintf("%.2f", neededMB), "available_mb", fmt.Sprintf("%.2f", availableMB))

	if available < need {
		logger.Error("❌ Insufficient disk space",
			"needed_mb", fmt.Sprintf("%.2f", neededMB),
			"available_mb", fmt.Sprintf("%.2f", availableMB))
		return fmt.Errorf("%w: need %.2f MB, have %.2f MB", ErrNoSpace, neededMB, availableMB)
	}
	return nil
}
