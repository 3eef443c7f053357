// Package restore applies OS-side file metadata (ownership, mode,
// timestamps) recovered from a decoded XFS inode onto an already-extracted
// output file. It is a thin shell over standard OS calls, deliberately kept
// outside the core decoder per the tool's own scoping of metadata restore
// as an external collaborator.
package restore

import (
	"os"
	"time"

	"github.com/vorteil/xfsrescue/pkg/xfs"
)

// Apply chowns, chmods, and sets the mtime/atime of path to match the
// fields recovered from inode. Chown failures are common when not running
// as root and are not treated as fatal; the caller decides whether to
// surface them.
func Apply(path string, inode *xfs.InodeCore) error {
	if err := os.Chmod(path, os.FileMode(inode.Mode&07777)); err != nil {
		return err
	}

	chownErr := os.Chown(path, int(inode.UID), int(inode.GID))

	atime := time.Unix(int64(inode.ATime.Sec), int64(inode.ATime.NSec))
	mtime := time.Unix(int64(inode.MTime.Sec), int64(inode.MTime.NSec))
	if err := os.Chtimes(path, atime, mtime); err != nil {
		return err
	}
	return chownErr
}
