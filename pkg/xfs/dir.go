package xfs

import "encoding/binary"

// DirEntry is one decoded directory entry, whether synthetic ("." and
// "..") or read from a LOCAL/EXTENTS directory body.
type DirEntry struct {
	Name string
	Ino  uint64
}

// ReadDir decodes a directory's entries, dispatching on its data-fork
// format. The returned slice always begins with "." then "..", followed by
// real entries in on-disk order.
func ReadDir(dev *Device, geo *Geometry, selfIadr uint64, inode *InodeCore, log WarnLogger) ([]DirEntry, error) {
	log = warnOrNop(log)
	format, ok := IsDirFormat(inode)
	if !ok {
		return nil, &NotADirectoryError{Iadr: selfIadr}
	}

	switch format {
	case InodeFormatLocal:
		return readDirLocal(dev, geo, selfIadr, inode)
	case InodeFormatExtents:
		return readDirExtents(dev, geo, selfIadr, inode, log)
	case InodeFormatBTree:
		return nil, &UnsupportedError{Feature: "btree directory"}
	default:
		return nil, &UnsupportedError{Feature: "unknown directory fork format"}
	}
}

// readDirLocal decodes a shortform (LOCAL) directory: header + entries
// inline in the inode itself, per the layout in spec section 3.
func readDirLocal(dev *Device, geo *Geometry, selfIadr uint64, inode *InodeCore) ([]DirEntry, error) {
	buf := make([]byte, geo.InodeSize-InoDataForkOffset)
	if err := dev.ReadAt(buf, geo.IadrOffset(selfIadr)+InoDataForkOffset); err != nil {
		return nil, err
	}

	r := newReader(buf)
	count, err := r.Bytes(1)
	if err != nil {
		return nil, err
	}
	i8count, err := r.Bytes(1)
	if err != nil {
		return nil, err
	}

	n := int(count[0])
	wide := false
	switch {
	case count[0] != 0 && i8count[0] != 0:
		return nil, &CorruptDirectoryError{Reason: "LOCAL header has both count and i8count set"}
	case count[0] == 0 && i8count[0] == 0:
		return nil, &CorruptDirectoryError{Reason: "LOCAL header has neither count nor i8count set"}
	case i8count[0] != 0:
		n = int(i8count[0])
		wide = true
	}

	inoWidth := 4
	if wide {
		inoWidth = 8
	}

	var parent uint64
	if wide {
		parent, err = r.Uint64()
	} else {
		var p32 uint32
		p32, err = r.Uint32()
		parent = uint64(p32)
	}
	if err != nil {
		return nil, err
	}

	selfIno := geo.IadrToIno(selfIadr)
	entries := []DirEntry{
		{Name: ".", Ino: selfIno},
		{Name: "..", Ino: parent},
	}

	for i := 0; i < n; i++ {
		nameLen, err := r.Bytes(1)
		if err != nil {
			return entries, err
		}
		if err := r.Skip(2); err != nil { // opaque offset tag, not needed
			return entries, err
		}
		name, err := r.Bytes(int(nameLen[0]))
		if err != nil {
			return entries, err
		}
		var ino uint64
		if inoWidth == 8 {
			ino, err = r.Uint64()
		} else {
			var i32 uint32
			i32, err = r.Uint32()
			ino = uint64(i32)
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, DirEntry{Name: string(name), Ino: ino})
	}

	return entries, nil
}

// readDirExtents decodes an EXTENTS-fork directory: one or more data
// blocks addressed by bmbt extents off the inode's data fork.
func readDirExtents(dev *Device, geo *Geometry, selfIadr uint64, inode *InodeCore, log WarnLogger) ([]DirEntry, error) {
	extBuf := make([]byte, geo.InodeSize-InoDataForkOffset)
	if err := dev.ReadAt(extBuf, geo.IadrOffset(selfIadr)+InoDataForkOffset); err != nil {
		return nil, err
	}

	extents, err := ReadExtents(extBuf, int(inode.NExtents))
	if err != nil {
		return nil, err
	}

	var entries []DirEntry
	firstBlock := true

	// startoff == 1 << (35 - blocklog) marks the leaf/free-space region of
	// a multi-block (node-form) directory; that region carries no
	// directory entries and is not implemented here.
	leafRegionOff := uint64(1) << (35 - geo.BlockLog)

	for _, ext := range extents {
		if ext.StartOff == leafRegionOff {
			log.Warnf("skipping leaf/free-space region of node-form directory (not implemented)")
			continue
		}

		single := len(extents) == 1
		blockEntries, err := readDirBlock(dev, geo, ext, single, firstBlock, selfIadr, log)
		if err != nil {
			return entries, err
		}
		entries = append(entries, blockEntries...)
		firstBlock = false
	}

	if len(entries) < 2 {
		return entries, &CorruptDirectoryError{Reason: "fewer than 2 entries decoded"}
	}

	return entries, nil
}

// readDirBlock decodes one directory data block (single-block XD2B or
// multi-block XD2D), returning its entries (including "." and ".." when
// this is the first block, which is where the on-disk layout places them).
func readDirBlock(dev *Device, geo *Geometry, ext ExtentRecord, single, isFirst bool, selfIadr uint64, log WarnLogger) ([]DirEntry, error) {
	blockSize := geo.BlockSize
	buf := make([]byte, blockSize)
	if err := dev.ReadAt(buf, geo.BlknoOffset(ext.StartBlock)); err != nil {
		return nil, err
	}

	magic := binary.BigEndian.Uint32(buf[0:4])
	wantMagic := uint32(Dir2BlockData)
	if single {
		wantMagic = Dir2BlockMagic
	}
	if magic != wantMagic {
		return nil, &CorruptDirectoryError{Reason: "bad directory block magic"}
	}

	var entries []DirEntry
	pos := DirEntriesOffset

	for pos < len(buf) {
		if pos+8 > len(buf) {
			break
		}
		inoField := binary.BigEndian.Uint64(buf[pos : pos+8])

		if inoField>>48 == DirFreeTag {
			if pos+10 > len(buf) {
				break
			}
			length := binary.BigEndian.Uint16(buf[pos+8 : pos+10])
			if length == 0 {
				break
			}
			pos += int(length)
			continue
		}

		if pos+9 > len(buf) {
			break
		}
		nameLen := int(buf[pos+8])
		nameStart := pos + 9
		nameEnd := nameStart + nameLen
		if nameEnd+2 > len(buf) {
			return entries, &CorruptDirectoryError{Reason: "entry name runs past block end"}
		}
		name := string(buf[nameStart:nameEnd])
		tag := binary.BigEndian.Uint16(buf[nameEnd : nameEnd+2])
		if int(tag) != pos {
			log.Warnf("directory entry %q tag 0x%04x does not match offset 0x%04x", name, tag, pos)
		}

		if isFirst && len(entries) == 0 {
			if name != "." || geo.IadrToIno(selfIadr) != inoField {
				return entries, &CorruptDirectoryError{Reason: "\".\" entry missing or does not match own inode"}
			}
		}

		entries = append(entries, DirEntry{Name: name, Ino: inoField})
		pos += align8(9 + nameLen + 2)
	}

	return entries, nil
}

func align8(n int) int {
	return (n + 7) &^ 7
}
