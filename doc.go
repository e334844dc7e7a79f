// Package ziputils provides safe extraction of ZIP archives to a destination
// directory.
//
// This package defends against the two failure classes inherent to untrusted
// archives: path traversal (zip-slip) and decompression bombs. Key features:
//   - Path traversal rejection with symlink-safe target resolution
//   - Declared-size ceiling checked before any bytes are written, plus a
//     running count of actual output bytes during extraction
//   - Configurable per-entry naming policy (keep original, URL-unescape, or
//     replace with a deterministic hash), with hashing forced for names that
//     exceed the platform filename limit
//   - A manifest describing every extracted file, keyed by archive entry path
//   - Filesystem abstraction (go-billy) for testing and custom storage
//
// Basic usage:
//
//	manifest, err := ziputils.ExtractArchiveToFolder(ctx, "pack.zip", "/data/out", ziputils.DefaultExtractionOptions)
//	if err != nil {
//	    return err
//	}
//
//	// Hash every media name, keep the content document as-is
//	opts := ziputils.DefaultExtractionOptions
//	opts.NamingModeSelector = func(entryPath string) ziputils.NamingMode {
//	    if entryPath == "content.xml" {
//	        return ziputils.NamingModeKeepOriginal
//	    }
//	    return ziputils.NamingModeHash
//	}
//	manifest, err = ziputils.ExtractArchiveToFolder(ctx, "pack.zip", "/data/out", opts)
//
// Extraction is fail-fast: any entry that escapes the destination root, any
// name that cannot fit the filename limit even after hashing, and any archive
// read or filesystem write error aborts the whole call. Already-written files
// are not rolled back; callers that need atomicity should extract into a
// temporary directory and rename on success.
package ziputils
