package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vorteil/xfsrescue/pkg/elog"
	"github.com/vorteil/xfsrescue/pkg/xfs"
	"github.com/vorteil/xfsrescue/pkg/xfs/filter"
	"github.com/vorteil/xfsrescue/pkg/xfs/restore"
)

var (
	flagExtractRecursive bool
	flagExtractPreserve  bool
	flagExtractPattern   string
	flagExtractParallel  bool
)

var extractCmd = &cobra.Command{
	Use:   "get SRC_PATH DEST_PATH",
	Short: "Extract a file or directory to the local filesystem",
	Args:  cobra.ExactArgs(2),
	RunE:  runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.BoolVarP(&flagExtractRecursive, "recursive", "R", false, "extract a directory and its contents")
	f.BoolVarP(&flagExtractPreserve, "preserve", "p", false, "restore ownership, mode, and timestamps on extracted files")
	f.BoolVar(&flagExtractParallel, "parallel", false, "fan out one worker per top-level entry, each opening its own device handle")
	addPatternFlag(f, &flagExtractPattern)
}

// fsExtractor implements xfs.Extractor by writing decoded files, symlinks,
// and directories under a local destination root.
type fsExtractor struct {
	dev      *xfs.Device
	geo      *xfs.Geometry
	destRoot string
	preserve bool
}

func (x *fsExtractor) localPath(path string) string {
	return filepath.Join(x.destRoot, filepath.FromSlash(path))
}

func (x *fsExtractor) Dir(path string) error {
	return os.MkdirAll(x.localPath(path), 0755)
}

func (x *fsExtractor) File(path string, selfIadr uint64, inode *xfs.InodeCore) error {
	dst := x.localPath(path)
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	progress := log.NewProgress(path, "KiB", inode.Size)
	out := elog.MultiWriteSeeker(f, progress)
	err = xfs.Dump(x.dev, x.geo, selfIadr, inode, out, log)
	progress.Finish(err == nil)
	if err != nil {
		return err
	}
	if x.preserve {
		if err := restore.Apply(dst, inode); err != nil {
			log.Warnf("could not restore metadata on %q: %v", dst, err)
		}
	}
	return nil
}

func (x *fsExtractor) Symlink(path string, selfIadr uint64, inode *xfs.InodeCore) error {
	var buf bytes.Buffer
	if err := xfs.Dump(x.dev, x.geo, selfIadr, inode, &buf, log); err != nil {
		return err
	}

	dst := x.localPath(path)
	if err := os.Symlink(buf.String(), dst); err != nil {
		return err
	}
	if x.preserve {
		if err := restore.Apply(dst, inode); err != nil {
			log.Warnf("could not restore metadata on %q: %v", dst, err)
		}
	}
	return nil
}

type nullSink struct{}

func (nullSink) Entry(path string, entry xfs.DirEntry, inode *xfs.InodeCore) {}

func runExtract(cmd *cobra.Command, args []string) error {
	srcPath, destPath := args[0], args[1]

	dev, geo, sb, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	iadr, inode, err := xfs.ResolvePath(dev, geo, sb, srcPath, log)
	if err != nil {
		return err
	}

	extractor := &fsExtractor{dev: dev, geo: geo, destRoot: filepath.Dir(destPath), preserve: flagExtractPreserve}
	base := filepath.Base(destPath)

	if _, ok := xfs.IsDirFormat(inode); ok {
		if !flagExtractRecursive {
			return fmt.Errorf("%s is a directory; pass --recursive to extract it", srcPath)
		}

		var m xfs.Matcher = filter.MatchAll{}
		if flagExtractPattern != "" {
			g, err := filter.New(flagExtractPattern)
			if err != nil {
				return fmt.Errorf("invalid --pattern: %w", err)
			}
			m = g
		}

		extractor.destRoot = destPath
		opts := xfs.WalkOptions{
			Filter:    m,
			Extract:   true,
			Extractor: extractor,
			Log:       log,
		}

		if err := extractor.Dir(""); err != nil {
			return err
		}

		if !flagExtractParallel {
			return xfs.Walk(dev, geo, iadr, "", opts, nullSink{})
		}
		return extractParallel(dev, geo, iadr, destPath, m)
	}

	switch {
	case xfs.IsRegular(inode):
		return extractor.File(base, iadr, inode)
	case xfs.IsSymlink(inode):
		return extractor.Symlink(base, iadr, inode)
	default:
		return &xfs.NotRegularOrSymlinkError{Mode: inode.Mode}
	}
}

// extractParallel fans out one worker per top-level entry of dirIadr, each
// opening its own *xfs.Device over the same underlying path so concurrent
// reads don't race on a shared file cursor. Sequential extraction shares a
// single device and walks depth-first instead.
func extractParallel(dev *xfs.Device, geo *xfs.Geometry, dirIadr uint64, destPath string, m xfs.Matcher) error {
	dirInode, err := xfs.ReadInode(dev, geo, dirIadr)
	if err != nil {
		return err
	}
	entries, err := xfs.ReadDir(dev, geo, dirIadr, dirInode, log)
	if err != nil {
		return err
	}

	var g errgroup.Group
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))

	for _, entry := range entries {
		entry := entry
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		if len(entry.Name) > 0 && entry.Name[0] == '.' {
			continue
		}
		if m != nil && !m.Match(entry.Name) {
			continue
		}

		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			workerDev, err := xfs.Open(flagDevice)
			if err != nil {
				return err
			}
			defer workerDev.Close()

			childIadr := geo.InoToIadr(entry.Ino)
			childInode, err := xfs.ReadInode(workerDev, geo, childIadr)
			if err != nil {
				log.Warnf("skipping entry %q: %v", entry.Name, err)
				return nil
			}

			childPath := "/" + entry.Name
			extractor := &fsExtractor{dev: workerDev, geo: geo, destRoot: destPath, preserve: flagExtractPreserve}

			if _, ok := xfs.IsDirFormat(childInode); ok {
				opts := xfs.WalkOptions{Filter: m, Extract: true, Extractor: extractor, Log: log}
				return xfs.Walk(workerDev, geo, childIadr, childPath, opts, nullSink{})
			}

			switch {
			case xfs.IsRegular(childInode):
				return extractor.File(childPath, childIadr, childInode)
			case xfs.IsSymlink(childInode):
				return extractor.Symlink(childPath, childIadr, childInode)
			default:
				log.Warnf("skipping abnormal file %q", entry.Name)
				return nil
			}
		})
	}

	return g.Wait()
}
