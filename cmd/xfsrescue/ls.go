package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vorteil/xfsrescue/pkg/xfs"
	"github.com/vorteil/xfsrescue/pkg/xfs/filter"
)

var (
	flagLSAll       bool
	flagLSAlmostAll bool
	flagLSLong      bool
	flagLSRecursive bool
	flagLSPattern   string
)

var lsCmd = &cobra.Command{
	Use:   "ls [PATH]",
	Short: "List a directory's contents",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLS,
}

func init() {
	f := lsCmd.Flags()
	f.BoolVarP(&flagLSAll, "all", "a", false, "show entries whose name starts with '.'")
	f.BoolVarP(&flagLSAlmostAll, "almost-all", "A", false, "like -a but without synthesizing './' and '../'")
	f.BoolVarP(&flagLSLong, "long", "l", false, "full per-entry listing (default: minimal)")
	f.BoolVarP(&flagLSRecursive, "recursive", "R", false, "recurse into subdirectories")
	addPatternFlag(f, &flagLSPattern)
}

type lsSink struct {
	geo      *xfs.Geometry
	long     bool
	hideDots bool
}

func (s *lsSink) Entry(path string, entry xfs.DirEntry, inode *xfs.InodeCore) {
	if s.hideDots && (entry.Name == "." || entry.Name == "..") {
		return
	}
	if inode == nil {
		fmt.Printf("[MISSING]\t%s\n", joinDisplay(path, entry.Name))
		return
	}

	if !s.long {
		fmt.Printf("0x%08x\t%s\n", entry.Ino, joinDisplay(path, entry.Name))
		return
	}

	fmt.Printf("[ENTRY]\t0x%08x\t0x%08x\t%08d\t%o\t%d\t%d\t%s\n",
		s.geo.InoToIadr(entry.Ino),
		entry.Ino,
		inode.Size,
		inode.Mode,
		inode.UID,
		inode.GID,
		joinDisplay(path, entry.Name),
	)
}

func joinDisplay(dir, name string) string {
	if dir == "" || dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

func runLS(cmd *cobra.Command, args []string) error {
	path := "/"
	if len(args) == 1 {
		path = args[0]
	}

	dev, geo, sb, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	iadr, inode, err := xfs.ResolvePath(dev, geo, sb, path, log)
	if err != nil {
		return err
	}
	if _, ok := xfs.IsDirFormat(inode); !ok {
		return &xfs.NotADirectoryError{Iadr: iadr}
	}

	var m xfs.Matcher = filter.MatchAll{}
	if flagLSPattern != "" {
		g, err := filter.New(flagLSPattern)
		if err != nil {
			return fmt.Errorf("invalid --pattern: %w", err)
		}
		m = g
	}

	opts := xfs.WalkOptions{
		ShowHidden: flagLSAll || flagLSAlmostAll,
		Filter:     m,
		Log:        log,
	}
	if !flagLSRecursive {
		opts.MaxDepth = 1
	}

	sink := &lsSink{geo: geo, long: flagLSLong, hideDots: flagLSAlmostAll && !flagLSAll}
	if err := xfs.Walk(dev, geo, iadr, path, opts, sink); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return nil
}
