// Package ziputils provides safe ZIP archive extraction.
// This file contains the size guard protecting against decompression bombs.
package ziputils

import (
	"archive/zip"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// archiveStats summarizes the declared contents of an archive.
// The numbers come from entry metadata only; nothing is decompressed to
// compute them.
type archiveStats struct {
	// fileCount is the number of file entries (directory markers excluded).
	fileCount int

	// declaredSize is the sum of declared uncompressed sizes in bytes.
	declaredSize int64
}

// statArchive sums the declared uncompressed sizes of all file entries.
// Declared sizes are attacker-controlled; the sum saturates at MaxInt64 so
// hostile headers cannot wrap it negative and slip past the ceiling check.
func statArchive(files []*zip.File) archiveStats {
	var stats archiveStats
	var total uint64
	saturated := false
	for _, f := range files {
		if strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir() {
			continue
		}
		stats.fileCount++
		if saturated {
			continue
		}
		next := total + f.UncompressedSize64
		if next < total || next > math.MaxInt64 {
			saturated = true
			continue
		}
		total = next
	}
	if saturated {
		stats.declaredSize = math.MaxInt64
	} else {
		stats.declaredSize = int64(total)
	}
	return stats
}

// sizeGuard enforces the total-data ceiling twice: once against the declared
// sizes before extraction starts, and continuously against the actual bytes
// produced while entries are being written. The second check closes the gap
// left by archives that under-declare their sizes.
type sizeGuard struct {
	maxAllowedDataLength int64
	written              int64
}

func newSizeGuard(limit int64) *sizeGuard {
	return &sizeGuard{maxAllowedDataLength: limit}
}

// checkDeclared validates the declared total size against the ceiling.
// It runs before any directory is created or file written.
func (g *sizeGuard) checkDeclared(stats archiveStats) error {
	if stats.declaredSize > g.maxAllowedDataLength {
		return fmt.Errorf(
			"declared size %s exceeds the allowed maximum of %s: %w",
			humanize.IBytes(uint64(stats.declaredSize)),
			humanize.IBytes(uint64(g.maxAllowedDataLength)),
			ErrSizeLimitExceeded,
		)
	}
	return nil
}

// account records n actually-written bytes and fails once the running total
// passes the ceiling.
func (g *sizeGuard) account(n int64) error {
	g.written += n
	if g.written > g.maxAllowedDataLength {
		return fmt.Errorf(
			"extracted data passed the allowed maximum of %s: %w",
			humanize.IBytes(uint64(g.maxAllowedDataLength)),
			ErrSizeLimitExceeded,
		)
	}
	return nil
}
