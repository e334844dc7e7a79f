// Package ziputils provides safe ZIP archive extraction.
// This file contains the Extractor and the extraction control loop.
package ziputils

import (
	"archive/zip"
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/VladimirKhil/ZipUtils/internal/validate"
)

// ExtractedFile describes one file written during extraction.
type ExtractedFile struct {
	// OutputPath is the file's path relative to the destination root, in
	// forward-slash form.
	OutputPath string

	// Size is the file's byte size on disk.
	Size int64
}

// Extractor extracts ZIP archives onto a filesystem.
//
// An Extractor holds no per-call state, so concurrent calls targeting
// different destination directories are safe. Concurrent calls targeting the
// same destination race on file overwrites and must be serialized by the
// caller.
type Extractor struct {
	fs billy.Filesystem
}

// New creates an Extractor backed by the OS filesystem.
func New() *Extractor {
	return &Extractor{fs: osfs.New("/")}
}

// NewWithFilesystem creates an Extractor that reads the archive from and
// writes extracted files through the provided filesystem. A nil filesystem
// falls back to the OS filesystem.
func NewWithFilesystem(fsys billy.Filesystem) *Extractor {
	if fsys == nil {
		return New()
	}
	return &Extractor{fs: fsys}
}

// ExtractArchiveToFolder extracts the ZIP archive at archivePath into
// destinationDir using an OS-backed extractor. See the method of the same
// name for semantics.
func ExtractArchiveToFolder(
	ctx context.Context,
	archivePath, destinationDir string,
	opts ExtractionOptions,
) (map[string]ExtractedFile, error) {
	return New().ExtractArchiveToFolder(ctx, archivePath, destinationDir, opts)
}

// ExtractArchiveToFolder opens the ZIP archive at archivePath and extracts
// it into destinationDir, returning the manifest of written files keyed by
// original archive entry path.
//
// The archive's declared total size is validated against the configured
// ceiling before any directory is created or byte written. Each entry is
// then filtered, validated against the destination root, renamed per the
// naming policy, and written sequentially. Any failure aborts the whole
// call: the caller receives either a complete manifest or an error, never a
// partial manifest, though files already written stay on disk.
func (e *Extractor) ExtractArchiveToFolder(
	ctx context.Context,
	archivePath, destinationDir string,
	opts ExtractionOptions,
) (map[string]ExtractedFile, error) {
	info, err := e.fs.Stat(archivePath)
	if err != nil {
		return nil, NewExtractionError("open", archivePath, err)
	}

	f, err := e.fs.Open(archivePath)
	if err != nil {
		return nil, NewExtractionError("open", archivePath, err)
	}
	defer f.Close()

	reader, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, NewExtractionError("open", archivePath, err)
	}

	return e.ExtractZip(ctx, reader, destinationDir, opts)
}

// ExtractZip extracts all entries of an already-open ZIP reader into
// destinationDir. It implements the loop described on ExtractArchiveToFolder
// and exists separately so callers holding archive bytes in memory do not
// need a file on disk.
func (e *Extractor) ExtractZip(
	ctx context.Context,
	archive *zip.Reader,
	destinationDir string,
	opts ExtractionOptions,
) (map[string]ExtractedFile, error) {
	if archive == nil {
		return nil, fmt.Errorf("archive reader cannot be nil")
	}
	if destinationDir == "" {
		return nil, fmt.Errorf("destination directory cannot be empty")
	}

	opts = opts.withDefaults()

	// The declared-size check runs before any side effect, including the
	// creation of the destination directory itself.
	stats := statArchive(archive.File)
	guard := newSizeGuard(opts.MaxAllowedDataLength)
	if err := guard.checkDeclared(stats); err != nil {
		return nil, NewExtractionError("extract", "archive", err)
	}

	rootAbs, err := filepath.Abs(filepath.Clean(destinationDir))
	if err != nil {
		return nil, NewExtractionError("extract", destinationDir, err)
	}
	if err := e.fs.MkdirAll(rootAbs, 0o755); err != nil {
		return nil, NewExtractionError("extract", destinationDir,
			fmt.Errorf("creating destination directory: %w", err))
	}

	ev := validate.NewEntryValidator()
	manifest := make(map[string]ExtractedFile, stats.fileCount)

	for _, entry := range archive.File {
		if err := isDone(ctx); err != nil {
			return nil, err
		}

		if !opts.FileFilter(entry.Name) {
			opts.Logger.WithField("entry", entry.Name).Debug("entry filtered out")
			continue
		}

		record, wrote, err := e.extractEntry(entry, rootAbs, opts, ev, guard)
		if err != nil {
			return nil, err
		}
		if wrote {
			manifest[entry.Name] = record
		}
	}

	return manifest, nil
}
