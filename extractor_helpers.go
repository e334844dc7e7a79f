package ziputils

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/VladimirKhil/ZipUtils/internal/validate"
)

// isDone returns a wrapped cancellation error if ctx is done.
// Cancellation is cooperative: it is observed between entries, not mid-copy.
func isDone(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("extraction canceled: %w", ctx.Err())
	default:
		return nil
	}
}

// extractEntry processes a single archive entry: naming-mode lookup, path
// validation, name resolution, then a directory create or a file write.
// The second return value reports whether a file was written and should be
// recorded in the manifest.
func (e *Extractor) extractEntry(
	entry *zip.File,
	rootAbs string,
	opts ExtractionOptions,
	ev *validate.EntryValidator,
	guard *sizeGuard,
) (ExtractedFile, bool, error) {
	mode := opts.NamingModeSelector(entry.Name)

	if err := ev.Validate(entry.Name); err != nil {
		return ExtractedFile{}, false,
			NewExtractionError("validate", entry.Name, fmt.Errorf("%w: %s", ErrPathTraversal, err))
	}

	// Entries whose stored path ends in the separator are directory markers
	// and contribute no output file.
	isDir := strings.HasSuffix(entry.Name, "/") || entry.FileInfo().IsDir()
	relPath := strings.TrimSuffix(entry.Name, "/")

	relDir := path.Dir(relPath)
	if isDir {
		relDir = relPath
	}

	targetDir, err := validate.ResolveTarget(rootAbs, relDir)
	if err != nil {
		return ExtractedFile{}, false,
			NewExtractionError("validate", entry.Name, fmt.Errorf("%w: %s", ErrPathTraversal, err))
	}

	// The resolver runs for directory markers too so an unresolvable name
	// fails in the same place regardless of entry type; the resolved name is
	// only used for files.
	name, err := resolveFileName(relPath, mode, opts.MaxFileNameLength)
	if err != nil {
		return ExtractedFile{}, false, NewExtractionError("extract", entry.Name, err)
	}

	if err := e.fs.MkdirAll(targetDir, 0o755); err != nil {
		return ExtractedFile{}, false,
			NewExtractionError("extract", entry.Name, fmt.Errorf("creating directory %s: %w", targetDir, err))
	}

	if isDir {
		opts.Logger.WithField("entry", entry.Name).Debug("created directory")
		return ExtractedFile{}, false, nil
	}

	// The ResolveTarget check covers the directory part only; re-check the
	// assembled path so no filename component, however it was produced, can
	// land on or outside the root.
	fullPath := filepath.Join(targetDir, name)
	if !strings.HasPrefix(fullPath, rootAbs+string(os.PathSeparator)) {
		return ExtractedFile{}, false,
			NewExtractionError("validate", entry.Name,
				fmt.Errorf("%w: resolved path %s leaves %s", ErrPathTraversal, fullPath, rootAbs))
	}

	size, err := e.writeFile(entry, fullPath, guard)
	if err != nil {
		return ExtractedFile{}, false, err
	}

	relOut, err := filepath.Rel(rootAbs, fullPath)
	if err != nil {
		return ExtractedFile{}, false,
			NewExtractionError("extract", entry.Name, fmt.Errorf("relativizing %s: %w", fullPath, err))
	}

	record := ExtractedFile{OutputPath: filepath.ToSlash(relOut), Size: size}
	opts.Logger.WithFields(logrus.Fields{
		"entry":  entry.Name,
		"output": record.OutputPath,
		"size":   record.Size,
	}).Debug("extracted file")

	return record, true, nil
}

// writeFile copies one entry's decompressed bytes to fullPath, overwriting
// any existing file, and returns the number of bytes written. Every chunk is
// accounted against the size guard so an archive that under-declared its
// sizes still cannot exceed the ceiling.
func (e *Extractor) writeFile(entry *zip.File, fullPath string, guard *sizeGuard) (int64, error) {
	src, err := entry.Open()
	if err != nil {
		return 0, NewExtractionError("extract", entry.Name, fmt.Errorf("opening entry: %w", err))
	}
	defer src.Close()

	dst, err := e.fs.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, NewExtractionError("extract", entry.Name, fmt.Errorf("creating %s: %w", fullPath, err))
	}
	defer dst.Close()

	var written int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if accErr := guard.account(int64(n)); accErr != nil {
				return written, NewExtractionError("extract", entry.Name, accErr)
			}
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return written, NewExtractionError("extract", entry.Name,
					fmt.Errorf("writing %s: %w", fullPath, writeErr))
			}
			written += int64(n)
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, NewExtractionError("extract", entry.Name,
				fmt.Errorf("reading entry: %w", readErr))
		}
	}
}
