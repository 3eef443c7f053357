package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type collectSink struct {
	paths []string
	nils  int
}

func (s *collectSink) Entry(path string, entry DirEntry, inode *InodeCore) {
	if inode == nil && entry.Name != "." && entry.Name != ".." {
		s.nils++
	}
	s.paths = append(s.paths, joinPath(path, entry.Name))
}

func TestWalkRecursesIntoSubdirectories(t *testing.T) {
	dev, geo, sb := buildTwoLevelTree(t)
	rootIadr := geo.InoToIadr(sb.RootInode)

	sink := &collectSink{}
	err := Walk(dev, geo, rootIadr, "", WalkOptions{}, sink)
	assert.NoError(t, err)

	assert.Contains(t, sink.paths, "/sub")
	assert.Contains(t, sink.paths, "/sub/leaf.txt")
}

func TestWalkRespectsMaxDepth(t *testing.T) {
	dev, geo, sb := buildTwoLevelTree(t)
	rootIadr := geo.InoToIadr(sb.RootInode)

	sink := &collectSink{}
	err := Walk(dev, geo, rootIadr, "", WalkOptions{MaxDepth: 1}, sink)
	assert.NoError(t, err)

	assert.Contains(t, sink.paths, "/sub")
	assert.NotContains(t, sink.paths, "/sub/leaf.txt")
}

func TestWalkSkipsHiddenByDefault(t *testing.T) {
	geo := &Geometry{BlockLog: 6, InodeLog: 0, AGBlkLog: 20, InopBLog: 0, AGBlocks: 1 << 20, BlockSize: 64, InodeSize: 164}

	const rootIadr = 0
	const hiddenIadr = 200

	data := make([]byte, hiddenIadr+100)
	putLocalDir(data, rootIadr, 0, []localEntry{{".hidden", geo.IadrToIno(hiddenIadr)}})
	putInodeCore(data, rootIadr, modeDir|0755, InodeFormatLocal)
	putInodeCore(data, hiddenIadr, modeRegular|0644, InodeFormatExtents)

	dev := writeTempDevice(t, data)

	sink := &collectSink{}
	err := Walk(dev, geo, rootIadr, "", WalkOptions{}, sink)
	assert.NoError(t, err)
	assert.NotContains(t, sink.paths, "/.hidden")

	sink = &collectSink{}
	err = Walk(dev, geo, rootIadr, "", WalkOptions{ShowHidden: true}, sink)
	assert.NoError(t, err)
	assert.Contains(t, sink.paths, "/.hidden")
}

func TestWalkToleratesUnreadableChildInode(t *testing.T) {
	geo := &Geometry{BlockLog: 6, InodeLog: 0, AGBlkLog: 20, InopBLog: 0, AGBlocks: 1 << 20, BlockSize: 64, InodeSize: 164}

	const rootIadr = 0
	const brokenIadr = 200

	data := make([]byte, brokenIadr+100)
	putLocalDir(data, rootIadr, 0, []localEntry{{"broken", geo.IadrToIno(brokenIadr)}})
	putInodeCore(data, rootIadr, modeDir|0755, InodeFormatLocal)
	// brokenIadr is left all-zero: its magic won't match "IN", so ReadInode
	// fails and the walk must log+skip rather than aborting.

	dev := writeTempDevice(t, data)

	sink := &collectSink{}
	err := Walk(dev, geo, rootIadr, "", WalkOptions{}, sink)
	assert.NoError(t, err)
	assert.Equal(t, 1, sink.nils)
}
