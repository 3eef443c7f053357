package xfs

import (
	"encoding/binary"
)

// LoadSuperblock reads and validates the sector-0 superblock, returning the
// parsed fields and the Geometry derived from them. Device position is
// preserved (the read happens through ReadAt, not Read).
func LoadSuperblock(dev *Device) (*SuperBlock, *Geometry, error) {
	buf := make([]byte, binary.Size(SuperBlock{}))
	if err := dev.ReadAt(buf, 0); err != nil {
		return nil, nil, err
	}

	var sb SuperBlock
	r := newReader(buf)
	if err := r.Decode(&sb); err != nil {
		return nil, nil, err
	}

	if sb.MagicNumber != SBMagicNumber {
		return nil, nil, &BadSuperblockError{Got: sb.MagicNumber}
	}

	return &sb, NewGeometry(&sb), nil
}
