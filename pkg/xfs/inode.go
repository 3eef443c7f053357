package xfs

import "encoding/binary"

const inodeCoreSize = 100 // binary.Size(InodeCore{})

// ReadInode seeks to the inode address, reads the inode core, and validates
// its magic. Device position is preserved (it reads through Device.ReadAt).
func ReadInode(dev *Device, geo *Geometry, iadr uint64) (*InodeCore, error) {
	buf := make([]byte, inodeCoreSize)
	if err := dev.ReadAt(buf, geo.IadrOffset(iadr)); err != nil {
		return nil, err
	}

	var ino InodeCore
	if err := newReader(buf).Decode(&ino); err != nil {
		return nil, err
	}

	if ino.Magic != InodeMagicNumber {
		return nil, &InvalidInodeError{Iadr: iadr, Got: ino.Magic}
	}

	return &ino, nil
}

// PeekInodeMagic reads only the two magic bytes at an inode address, for
// callers that merely need to know "is there an inode here?" without
// paying for a full inode-core decode.
func PeekInodeMagic(dev *Device, geo *Geometry, iadr uint64) (bool, error) {
	buf := make([]byte, 2)
	if err := dev.ReadAt(buf, geo.IadrOffset(iadr)); err != nil {
		return false, err
	}
	magic := binary.BigEndian.Uint16(buf)
	return magic == InodeMagicNumber, nil
}

// POSIX file-type bits within InodeCore.Mode, the upper nibble of the
// 16-bit mode field.
const (
	modeTypeMask = 0170000
	modeFIFO     = 0010000
	modeCharDev  = 0020000
	modeDir      = 0040000
	modeBlockDev = 0060000
	modeRegular  = 0100000
	modeSymlink  = 0120000
	modeSocket   = 0140000
)

// IsDirFormat reports whether this inode is a version-2 directory with a
// fork format this decoder can at least attempt (LOCAL, EXTENTS, or BTREE).
// It returns the fork format so callers can dispatch without re-reading.
func IsDirFormat(inode *InodeCore) (format uint8, ok bool) {
	if inode.Mode&modeTypeMask != modeDir {
		return 0, false
	}
	if inode.Version != 2 {
		return 0, false
	}
	switch inode.Format {
	case InodeFormatLocal, InodeFormatExtents, InodeFormatBTree:
		return inode.Format, true
	default:
		return inode.Format, false
	}
}

// IsRegular reports whether the inode's mode bits mark a regular file.
func IsRegular(inode *InodeCore) bool {
	return inode.Mode&modeTypeMask == modeRegular
}

// IsSymlink reports whether the inode's mode bits mark a symbolic link.
func IsSymlink(inode *InodeCore) bool {
	return inode.Mode&modeTypeMask == modeSymlink
}

// PermissionsString renders the inode's type+permission bits the way `ls -l`
// does, e.g. "drwxr-x---".
func PermissionsString(inode *InodeCore) string {
	mode := []byte("----------")

	switch inode.Mode & modeTypeMask {
	case modeDir:
		mode[0] = 'd'
	case modeSymlink:
		mode[0] = 'l'
	case modeCharDev:
		mode[0] = 'c'
	case modeBlockDev:
		mode[0] = 'b'
	case modeFIFO:
		mode[0] = 'p'
	case modeSocket:
		mode[0] = 's'
	}

	modeChars := []byte{'r', 'w', 'x'}
	for i := 0; i < 9; i++ {
		if inode.Mode&(1<<(8-i)) != 0 {
			mode[1+i] = modeChars[i%3]
		}
	}

	return string(mode)
}
