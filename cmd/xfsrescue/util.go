package main

import (
	"fmt"
	"os"

	"github.com/sisatech/tablewriter"

	"github.com/vorteil/xfsrescue/pkg/xfs"
)

// openDevice opens the --device target and loads its superblock, returning
// everything a subcommand needs to resolve paths and walk the filesystem.
func openDevice() (*xfs.Device, *xfs.Geometry, *xfs.SuperBlock, error) {
	if flagDevice == "" {
		return nil, nil, nil, fmt.Errorf("missing required flag --device")
	}

	dev, err := xfs.Open(flagDevice)
	if err != nil {
		return nil, nil, nil, err
	}

	sb, geo, err := xfs.LoadSuperblock(dev)
	if err != nil {
		dev.Close()
		return nil, nil, nil, err
	}

	return dev, geo, sb, nil
}

// PrintableSize wraps a byte count to render it in human-friendly units.
type PrintableSize int64

func (s PrintableSize) String() string {
	x := int64(s)
	if x == 0 {
		return "0"
	}
	var units int
	suffixes := []string{"", "K", "M", "G", "T"}
	for x%1024 == 0 && units < len(suffixes)-1 {
		x /= 1024
		units++
	}
	return fmt.Sprintf("%d%s", x, suffixes[units])
}

// PlainTable prints a borderless, left-aligned table to stdout. The first
// row is treated as a header placeholder and skipped, matching the shape
// callers build their row slices in.
func PlainTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	for i := 1; i < len(rows); i++ {
		table.Append(rows[i])
	}
	table.Render()
}
