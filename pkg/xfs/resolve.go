package xfs

import (
	"fmt"
	"strings"
)

// ResolvePath walks from the root inode down to path, resolving one path
// component per directory decode, and returns the iadr and inode of the
// final component. path is interpreted as slash-separated and absolute;
// a leading slash is optional. An empty path (or "/") resolves to the
// root directory itself.
func ResolvePath(dev *Device, geo *Geometry, sb *SuperBlock, path string, log WarnLogger) (uint64, *InodeCore, error) {
	log = warnOrNop(log)

	iadr := geo.InoToIadr(sb.RootInode)
	inode, err := ReadInode(dev, geo, iadr)
	if err != nil {
		return 0, nil, err
	}

	parts := splitPath(path)
	for _, name := range parts {
		format, ok := IsDirFormat(inode)
		if !ok {
			return 0, nil, &NotADirectoryError{Iadr: iadr}
		}
		_ = format

		entries, err := ReadDir(dev, geo, iadr, inode, log)
		if err != nil {
			return 0, nil, err
		}

		var next *uint64
		for _, e := range entries {
			if e.Name == name {
				ino := e.Ino
				next = &ino
				break
			}
		}
		if next == nil {
			return 0, nil, fmt.Errorf("no such file or directory: %q", name)
		}

		iadr = geo.InoToIadr(*next)
		inode, err = ReadInode(dev, geo, iadr)
		if err != nil {
			return 0, nil, err
		}
	}

	return iadr, inode, nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
