package xfs

// Matcher decides whether a name passes a caller-configured filter. The
// core package depends only on this interface; pkg/xfs/filter provides a
// glob-backed implementation for the CLI to wire in.
type Matcher interface {
	Match(name string) bool
}

// EntrySink receives one call per emitted directory entry, along with its
// resolved inode (nil if the inode itself could not
// be read, in which case the entry is still emitted using directory-level
// information only).
type EntrySink interface {
	Entry(path string, entry DirEntry, inode *InodeCore)
}

// Extractor is invoked by Walk when extraction mode is enabled. It receives
// the path relative to the extraction root, the entry, and its inode, and
// is responsible for creating the corresponding output file/directory/
// symlink.
type Extractor interface {
	Dir(path string) error
	File(path string, selfIadr uint64, inode *InodeCore) error
	Symlink(path string, selfIadr uint64, inode *InodeCore) error
}

// WalkOptions configures a traversal.
type WalkOptions struct {
	MaxDepth   int // 0 means unlimited
	ShowHidden bool
	Filter     Matcher // nil means "match everything"
	Extract    bool
	Extractor  Extractor
	Log        WarnLogger
}

// Walk decodes the directory at rootIadr and recurses into subdirectories,
// calling sink.Entry for every entry that passes the filter/hidden checks,
// and (if extraction is enabled) invoking the Extractor for directories,
// regular files, and symlinks. Errors reading or decoding the directory at
// rootIadr, and Extractor.Dir errors, are returned. Below that, any error
// reading a child inode or walking a subdirectory is logged and that entry
// is skipped; device I/O errors are not told apart from decode errors
// there, so they do not abort the walk.
func Walk(dev *Device, geo *Geometry, rootIadr uint64, rootPath string, opts WalkOptions, sink EntrySink) error {
	log := warnOrNop(opts.Log)
	return walk(dev, geo, rootIadr, rootPath, 0, opts, sink, log)
}

func walk(dev *Device, geo *Geometry, dirIadr uint64, path string, depth int, opts WalkOptions, sink EntrySink, log WarnLogger) error {
	dirInode, err := ReadInode(dev, geo, dirIadr)
	if err != nil {
		return err
	}

	entries, err := ReadDir(dev, geo, dirIadr, dirInode, log)
	if err != nil {
		// Structural directory errors fail this directory but the caller
		// (our own recursive caller, or the top-level driver) continues
		// with siblings.
		return err
	}

	if opts.Extract {
		if err := opts.Extractor.Dir(path); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			var dotInode *InodeCore
			if di, err := ReadInode(dev, geo, geo.InoToIadr(entry.Ino)); err == nil {
				dotInode = di
			}
			sink.Entry(path, entry, dotInode)
			continue
		}

		if !opts.ShowHidden && len(entry.Name) > 0 && entry.Name[0] == '.' {
			continue
		}
		if opts.Filter != nil && !opts.Filter.Match(entry.Name) {
			continue
		}

		childIadr := geo.InoToIadr(entry.Ino)
		childInode, err := ReadInode(dev, geo, childIadr)
		if err != nil {
			log.Warnf("skipping entry %q: %v", entry.Name, err)
			sink.Entry(path, entry, nil)
			continue
		}

		sink.Entry(path, entry, childInode)
		childPath := joinPath(path, entry.Name)

		if format, ok := IsDirFormat(childInode); ok {
			_ = format
			if opts.MaxDepth != 0 && depth+1 >= opts.MaxDepth {
				continue
			}
			if err := walk(dev, geo, childIadr, childPath, depth+1, opts, sink, log); err != nil {
				log.Warnf("skipping directory %q: %v", childPath, err)
			}
			continue
		}

		if !opts.Extract {
			continue
		}

		switch {
		case IsRegular(childInode):
			if err := opts.Extractor.File(childPath, childIadr, childInode); err != nil {
				log.Warnf("failed to extract %q: %v", childPath, err)
			}
		case IsSymlink(childInode):
			if err := opts.Extractor.Symlink(childPath, childIadr, childInode); err != nil {
				log.Warnf("failed to extract symlink %q: %v", childPath, err)
			}
		default:
			log.Warnf("skipping abnormal file %q", childPath)
		}
	}

	return nil
}

func joinPath(dir, name string) string {
	if dir == "" || dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
