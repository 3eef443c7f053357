package xfs

// On-disk layout constants and structs. Field order and sizes mirror the
// XFS on-disk format; every multibyte value is big-endian and must be
// decoded with encoding/binary.Read(..., binary.BigEndian, ...).

const (
	SBMagicNumber = 0x58465342 // "XFSB"

	InodeMagicNumber = 0x494e // "IN"

	InodeFormatDev     = 0
	InodeFormatLocal   = 1
	InodeFormatExtents = 2
	InodeFormatBTree   = 3
	InodeFormatUUID    = 4

	// InoDataForkOffset is the fixed byte offset of the data fork within
	// an on-disk inode, immediately following the 100-byte inode core.
	InoDataForkOffset = 0x64

	Dir2BlockMagic = 0x58443242 // XFS_DIR2_BLOCK_MAGIC "XD2B"
	Dir2BlockData  = 0x58443244 // XFS_DIR2_DATA_MAGIC  "XD2D"

	// BmapLeafMagic marks a leaf block of an inline (single-level) bmap
	// B+tree root, as opposed to the unrelated on-disk BMAP btree blocks
	// used for allocation group free-space trees.
	BmapLeafMagic = 0x424D4150 // "BMAP"

	// DirFreeTag marks a block/data-directory entry as free space: the
	// top 16 bits of its 8-byte inode-number field read as this value.
	DirFreeTag = 0xffff

	// DirEntriesOffset is the byte offset within a directory data block
	// at which entries begin, following the Dir2Header.
	DirEntriesOffset = 0x10

	// BmdrKeyAreaSize is the size in bytes of the key area following the
	// 4-byte level/numrecs header in an inline bmap root.
	BmdrKeyAreaSize = 0x48

	// BmapLeafSiblingSentinel is the all-ones value both sibling pointers
	// of a single-level bmap leaf block must hold.
	BmapLeafSiblingSentinel = ^uint64(0)
)

// SuperBlock is the fixed-layout XFS primary superblock at device offset 0.
type SuperBlock struct {
	MagicNumber                     uint32   // 0
	BlockSize                       uint32   // 4
	DataBlocks                      uint64   // 8
	RealtimeBlocks                  uint64   // 16
	RealtimeExtents                 uint64   // 24
	UUID                            [16]byte // 32
	LogStart                        uint64   // 48
	RootInode                       uint64   // 56
	RealtimeBitmapInode             uint64   // 64
	RealtimeSummaryInode            uint64   // 72
	RealtimeExtentBlocks            uint32   // 80
	AGBlocks                        uint32   // 84
	AGCount                         uint32   // 88
	RealtimeBitmapBlocks            uint32   // 92
	LogBlocks                       uint32   // 96
	VersionNum                      uint16   // 100
	SectorSize                      uint16   // 102
	InodeSize                       uint16   // 104
	InodesPerBlock                  uint16   // 106
	FSName                          [12]byte // 108
	BlockSizeLogarithmic            uint8    // 120
	SectorSizeLogarithmic           uint8    // 121
	InodeSizeLogarithmic            uint8    // 122
	InodesPerBlockLogarithmic       uint8    // 123
	AGBlocksLogarithmic             uint8    // 124
	RealtimeExtentBlocksLogarithmic uint8    // 125
	InProgress                      uint8    // 126
	InodesMaxPercentage             uint8    // 127
	InodesAllocated                 uint64   // 128
	InodesFree                      uint64   // 136
	DataFree                        uint64   // 144
	RealtimeExtentsFree             uint64   // 152
	UserQuotasInode                 uint64   // 160
	GroupQuotasInode                uint64   // 168
	QuotaFlags                      uint16   // 176
	MiscFlags                       uint8    // 178
	SharedVN                        uint8    // 179
	InodeChunkAlignment             uint32   // 180
	StripeUnitBlocks                uint32   // 184
	StripeWidthBlocks               uint32   // 188
	DirectoryBlocksLogarithmic      uint8    // 192
	LogSectorSizeLogarithmic        uint8    // 193
	LogSectorSize                   uint16   // 194
	LogStripeUnit                   uint32   // 196
	MoreFeatures                    uint32   // 200
	BadFeatures                     uint32   // 204
}

// Timestamp is the on-disk 8-byte XFS timestamp: seconds + nanoseconds.
type Timestamp struct {
	Sec  int32
	NSec int32
}

// InodeCore is the fixed 100-byte inode core common to every XFS inode;
// the data/attribute fork follows immediately at InoDataForkOffset.
type InodeCore struct {
	Magic        uint16    // 0
	Mode         uint16    // 2
	Version      uint8     // 4
	Format       uint8     // 5
	Onlink       uint16    // 6
	UID          uint32    // 8
	GID          uint32    // 12
	Nlink        uint32    // 16
	ProjID       uint16    // 20
	Pad          [8]byte   // 22
	FlushIter    uint16    // 30
	ATime        Timestamp // 32
	MTime        Timestamp // 40
	CTime        Timestamp // 48
	Size         int64     // 56
	NBlocks      uint64    // 64
	ExtSize      uint32    // 72
	NExtents     int32     // 76
	ANExtents    int16     // 80
	ForkOff      uint8     // 82
	AFormat      int8      // 83
	DMevMask     uint32    // 84
	DMState      uint16    // 88
	Flags        uint16    // 90
	Gen          uint32    // 92
	NextUnlinked uint32    // 96
} // 100

// Dir2FreeEntry is one entry of a directory data block's "best free space"
// hint table in its header.
type Dir2FreeEntry struct {
	Offset uint16
	Length uint16
}

// Dir2DataFDCount is the number of Dir2FreeEntry slots in a Dir2Header.
const Dir2DataFDCount = 3

// Dir2Header is the 16-byte header of a single/multi-block directory data
// block (magic XD2B or XD2D) preceding the entries at DirEntriesOffset.
type Dir2Header struct {
	Magic    uint32
	BestFree [Dir2DataFDCount]Dir2FreeEntry
}

// BmbtRaw is a packed 128-bit bmbt extent record as it appears on disk,
// two big-endian 64-bit words.
type BmbtRaw struct {
	L0 uint64
	L1 uint64
}

// BmdrHeader is the 4-byte header of an inline bmap root embedded in a
// BTREE-format inode fork, followed by BmdrKeyAreaSize bytes of key data
// and then an array of 64-bit block pointers to leaf blocks.
type BmdrHeader struct {
	Level   uint16
	NumRecs uint16
}

// BmapLeafHeader is the fixed header of a bmap leaf block: magic at offset
// 0, left/right sibling block pointers, with the extent record array
// following at offset 0x18.
type BmapLeafHeader struct {
	Magic    uint32   // 0
	_        uint32   // 4 (pad/level, unused at single level)
	LeftSib  uint64   // 8
	RightSib uint64   // 16
} // extents begin at offset 0x18
