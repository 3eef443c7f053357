package xfs

import (
	"io"
	"os"
)

// Device is a seekable, read-only byte source over an XFS block device or
// image file. It never writes: Open refuses to create, truncate, or append.
type Device struct {
	f *os.File
}

// Open opens path read-only. It does not sniff any image container format
// (VMDK, GPT, qcow2): callers pass a raw device or raw image file.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &Device{f: f}, nil
}

// Close releases the underlying file handle.
func (d *Device) Close() error {
	return d.f.Close()
}

// SeekAbs positions the device at an absolute byte offset.
func (d *Device) SeekAbs(offset int64) error {
	_, err := d.f.Seek(offset, io.SeekStart)
	return err
}

// Tell reports the current byte offset.
func (d *Device) Tell() (int64, error) {
	return d.f.Seek(0, io.SeekCurrent)
}

// Read fills dst fully or returns an error; short reads that aren't EOF
// are reported as a ShortReadError rather than silently returning n<len(dst).
func (d *Device) Read(dst []byte) error {
	n, err := io.ReadFull(d.f, dst)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return &ShortReadError{Want: len(dst), Got: n}
		}
		return err
	}
	return nil
}

// ReadAt reads len(dst) bytes at an absolute offset without disturbing the
// device's current position (it seeks, reads, then restores).
func (d *Device) ReadAt(dst []byte, offset int64) error {
	save, err := d.Tell()
	if err != nil {
		return err
	}
	defer d.SeekAbs(save)

	if err := d.SeekAbs(offset); err != nil {
		return err
	}
	return d.Read(dst)
}

// SeekIadr positions the device at the byte offset of an inode address.
func (d *Device) SeekIadr(geo *Geometry, iadr uint64) error {
	return d.SeekAbs(geo.IadrOffset(iadr))
}

// SeekBlkno positions the device at the byte offset of a filesystem block
// number, converting through BlknoToBlkadr first. This is the single seek
// call that replaces the original tool's double seek into btree-leaf
// blocks (see DESIGN.md).
func (d *Device) SeekBlkno(geo *Geometry, blkno uint64) error {
	return d.SeekAbs(geo.BlknoOffset(blkno))
}

// Peek runs fn with the device positioned at offset, then restores the
// original position regardless of fn's outcome. Used by probe-style reads
// (e.g. checking an inode's magic) that must not disturb a caller's cursor.
func (d *Device) Peek(offset int64, fn func() error) error {
	save, err := d.Tell()
	if err != nil {
		return err
	}
	defer d.SeekAbs(save)

	if err := d.SeekAbs(offset); err != nil {
		return err
	}
	return fn()
}
