package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vorteil/xfsrescue/pkg/xfs"
)

var statCmd = &cobra.Command{
	Use:   "stat [PATH]",
	Short: "Print superblock geometry and an inode's metadata",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStat,
}

func runStat(cmd *cobra.Command, args []string) error {
	path := "/"
	if len(args) == 1 {
		path = args[0]
	}

	dev, geo, sb, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	printSuperblock(sb)
	fmt.Println()

	iadr, inode, err := xfs.ResolvePath(dev, geo, sb, path, log)
	if err != nil {
		return err
	}
	printInode(path, iadr, inode)

	return nil
}

func printSuperblock(sb *xfs.SuperBlock) {
	id, err := uuid.FromBytes(sb.UUID[:])
	idStr := "?"
	if err == nil {
		idStr = id.String()
	}

	rows := [][]string{
		{"", ""},
		{"Filesystem UUID", idStr},
		{"Label", filepath.Clean(string(trimNulls(sb.FSName[:])))},
		{"Block size", PrintableSize(int64(sb.BlockSize)).String()},
		{"Inode size", PrintableSize(int64(sb.InodeSize)).String()},
		{"Data blocks", fmt.Sprintf("%d", sb.DataBlocks)},
		{"AG count", fmt.Sprintf("%d", sb.AGCount)},
		{"AG blocks", fmt.Sprintf("%d", sb.AGBlocks)},
		{"Root inode", fmt.Sprintf("0x%08x", sb.RootInode)},
		{"Inodes allocated", fmt.Sprintf("%d", sb.InodesAllocated)},
		{"Inodes free", fmt.Sprintf("%d", sb.InodesFree)},
	}
	PlainTable(rows)
}

func printInode(path string, iadr uint64, inode *xfs.InodeCore) {
	var ftype string
	switch {
	case xfs.IsRegular(inode):
		ftype = "regular file"
	case xfs.IsSymlink(inode):
		ftype = "symbolic link"
	default:
		if _, ok := xfs.IsDirFormat(inode); ok {
			ftype = "directory"
		} else {
			ftype = "special file"
		}
	}

	fmt.Printf("File: %s\t%s\n", path, ftype)
	fmt.Printf("Size: %s\n", PrintableSize(inode.Size))
	fmt.Printf("Inode address: 0x%08x\n", iadr)
	fmt.Printf("Access: %#o/%s\n", inode.Mode&07777, xfs.PermissionsString(inode))
	fmt.Printf("Uid: %d\n", inode.UID)
	fmt.Printf("Gid: %d\n", inode.GID)
	fmt.Printf("Links: %d\n", inode.Nlink)
	fmt.Printf("Access: %s\n", time.Unix(int64(inode.ATime.Sec), int64(inode.ATime.NSec)))
	fmt.Printf("Modify: %s\n", time.Unix(int64(inode.MTime.Sec), int64(inode.MTime.NSec)))
	fmt.Printf("Change: %s\n", time.Unix(int64(inode.CTime.Sec), int64(inode.CTime.NSec)))
}

func trimNulls(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}
