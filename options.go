// Package ziputils provides safe ZIP archive extraction.
// This file contains extraction options and the naming policy model.
package ziputils

import (
	"io"
	"runtime"

	"github.com/sirupsen/logrus"
)

// NamingMode selects how an archive entry's stored name is transformed into
// the on-disk filename.
type NamingMode int

const (
	// NamingModeKeepOriginal passes the stored name through unchanged.
	NamingModeKeepOriginal NamingMode = iota

	// NamingModeUnescape percent-decodes the stored name before use.
	NamingModeUnescape

	// NamingModeHash always replaces the name with a deterministic hash of
	// the original name. Hashing is also forced, regardless of mode, when a
	// resolved name exceeds the configured maximum filename length.
	NamingModeHash
)

// String returns a string representation of the NamingMode.
func (m NamingMode) String() string {
	switch m {
	case NamingModeKeepOriginal:
		return "keep"
	case NamingModeUnescape:
		return "unescape"
	case NamingModeHash:
		return "hash"
	default:
		return "unknown"
	}
}

// DefaultMaxAllowedDataLength is the default ceiling on the total
// uncompressed size of an archive (1 GiB).
const DefaultMaxAllowedDataLength int64 = 1 * 1024 * 1024 * 1024

// DefaultMaxFileNameLength is the default maximum filename length, fixed at
// process start from the platform. Filesystems that store names in a
// multi-byte encoding get a tighter limit to leave headroom for expansion.
var DefaultMaxFileNameLength = detectMaxFileNameLength()

func detectMaxFileNameLength() int {
	switch runtime.GOOS {
	case "windows", "darwin":
		// Short total-path limits on Windows; APFS/HFS+ normalize names
		// into a multi-byte form on darwin.
		return 100
	default:
		return 200
	}
}

// ExtractionOptions controls extraction behavior and security constraints.
// The zero value is usable: unset fields fall back to the documented
// defaults, meaning "extract everything, keep names, 1 GiB ceiling".
type ExtractionOptions struct {
	// MaxAllowedDataLength is the ceiling on the total uncompressed size of
	// the archive, in bytes. The sum of declared entry sizes is checked
	// against it before anything is written, and the actual number of bytes
	// produced is checked against it during extraction.
	// Zero or negative means DefaultMaxAllowedDataLength.
	MaxAllowedDataLength int64

	// FileFilter is an inclusion predicate over an entry's full archive
	// path. Entries it rejects are skipped entirely and do not appear in
	// the manifest. Nil accepts all entries.
	FileFilter func(entryPath string) bool

	// NamingModeSelector maps an entry's full archive path to the naming
	// mode used for its on-disk filename. Nil keeps all names unchanged.
	NamingModeSelector func(entryPath string) NamingMode

	// MaxFileNameLength is the maximum length, in bytes, of a resolved
	// filename component. Names over the limit are replaced with a hash;
	// if even the hashed name does not fit, extraction fails.
	// Zero or negative means DefaultMaxFileNameLength.
	MaxFileNameLength int

	// Logger receives per-entry debug logging. Nil discards all output.
	Logger logrus.FieldLogger
}

// DefaultExtractionOptions provides safe defaults for archive extraction:
// a 1 GiB total-size ceiling, the platform filename limit, every entry
// accepted, and every name kept as stored.
var DefaultExtractionOptions = ExtractionOptions{
	MaxAllowedDataLength: DefaultMaxAllowedDataLength,
	MaxFileNameLength:    0, // resolved to DefaultMaxFileNameLength per call
}

// withDefaults returns a copy of the options with unset fields resolved.
func (o ExtractionOptions) withDefaults() ExtractionOptions {
	if o.MaxAllowedDataLength <= 0 {
		o.MaxAllowedDataLength = DefaultMaxAllowedDataLength
	}
	if o.MaxFileNameLength <= 0 {
		o.MaxFileNameLength = DefaultMaxFileNameLength
	}
	if o.FileFilter == nil {
		o.FileFilter = func(string) bool { return true }
	}
	if o.NamingModeSelector == nil {
		o.NamingModeSelector = func(string) NamingMode { return NamingModeKeepOriginal }
	}
	if o.Logger == nil {
		o.Logger = nopLogger
	}
	return o
}

// nopLogger discards everything; used when no Logger is configured.
var nopLogger logrus.FieldLogger = newNopLogger()

func newNopLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
