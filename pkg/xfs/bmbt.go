package xfs

import (
	"encoding/binary"

	"github.com/davidminor/uint128"
)

// ExtentState is NORM or UNWRITTEN, decoded from the top bit of a bmbt
// extent record's first word.
type ExtentState int

const (
	ExtentNorm ExtentState = iota
	ExtentUnwritten
)

// ExtentRecord is one decoded bmbt entry: a contiguous run of logical file
// blocks mapped to a contiguous run of physical filesystem blocks.
type ExtentRecord struct {
	StartOff   uint64 // logical offset, in blocks
	StartBlock uint64 // physical blkno
	BlockCount uint64 // length, in blocks
	State      ExtentState
}

// Bit widths of the packed 128-bit extent record: blockcount occupies the
// low 21 bits of the second word, startblock the upper 43 bits of the
// second word, and startoff bits 9-62 of the first word, below the
// unwritten-state flag in bit 63. The low 9 bits of the first word are not
// decoded.
const (
	extBlockCountBits = 21
	extFlagBit        = 63
)

// UnpackExtent decodes a bmbt extent record from two already-host-order
// 64-bit words (l0 the first/high word, l1 the second/low word), e.g. read
// via binary.BigEndian.Uint64. Use UnpackExtentRaw for call sites that
// already have the pair assembled into a BmbtRaw.
func UnpackExtent(l0, l1 uint64) ExtentRecord {
	flag := l0 >> extFlagBit
	startoff := (l0 &^ (uint64(1) << extFlagBit)) >> 9

	startblock := l1 >> extBlockCountBits
	blockcount := l1 & maskLow(extBlockCountBits)

	state := ExtentNorm
	if flag == 1 {
		state = ExtentUnwritten
	}

	return ExtentRecord{
		StartOff:   startoff,
		StartBlock: startblock,
		BlockCount: blockcount,
		State:      state,
	}
}

// UnpackExtentRaw decodes a bmbt extent record already assembled into a
// BmbtRaw (its L0/L1 fields are populated by big-endian struct decoding via
// reader.Decode, which performs the byte-order conversion at read time), for
// call sites that decode a whole record in one step instead of two loose
// words.
func UnpackExtentRaw(raw BmbtRaw) ExtentRecord {
	return UnpackExtent(raw.L0, raw.L1)
}

// PackExtent re-packs a decoded extent back into its 128-bit on-disk words,
// used by tests to assert pack(unpack(b)) == b. This mirrors the bit
// arithmetic the teacher's own writer-direction code performs when
// building bmbt records, expressed with the same uint128 library for the
// cross-word shifts.
func PackExtent(rec ExtentRecord) (l0, l1 uint64) {
	var blocks, number uint128.Uint128
	blocks.L = rec.BlockCount & maskLow(extBlockCountBits)
	number.L = rec.StartBlock
	number = number.ShiftLeft(extBlockCountBits)
	word1 := blocks.Or(number)
	l1 = word1.L

	l0 = rec.StartOff << 9
	if rec.State == ExtentUnwritten {
		l0 |= uint64(1) << extFlagBit
	}
	return l0, l1
}

// ReadExtents reads n packed bmbt records from buf (raw on-disk bytes, not
// yet byte-swapped) and unpacks each.
func ReadExtents(buf []byte, n int) ([]ExtentRecord, error) {
	recs := make([]ExtentRecord, 0, n)
	for i := 0; i < n; i++ {
		off := i * 16
		if off+16 > len(buf) {
			return recs, &ShortReadError{Want: (i + 1) * 16, Got: len(buf)}
		}
		l0 := binary.BigEndian.Uint64(buf[off : off+8])
		l1 := binary.BigEndian.Uint64(buf[off+8 : off+16])
		rec := UnpackExtent(l0, l1)
		if rec.State == ExtentUnwritten && rec.BlockCount == 0 {
			return recs, &CorruptDirectoryError{Reason: "unwritten extent with zero block count"}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
