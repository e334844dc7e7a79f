// Package testutil provides testing utilities for the ZIP extraction library.
// This file contains in-memory ZIP builders, including archives that exploit
// common vulnerabilities in archive processing.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Entry describes one entry of a ZIP archive to build.
// A Name ending in "/" produces a directory marker; Body is ignored for
// directory markers.
type Entry struct {
	Name string
	Body []byte
}

// BuildZipBytes builds a ZIP archive in memory from the given entries,
// in order, and returns the raw archive bytes.
func BuildZipBytes(entries ...Entry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, entry := range entries {
		// CreateHeader performs no name validation, which lets tests craft
		// traversal and absolute-path entries the same way a hostile
		// archive would carry them.
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   entry.Name,
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, fmt.Errorf("creating entry %s: %w", entry.Name, err)
		}
		if len(entry.Name) > 0 && entry.Name[len(entry.Name)-1] == '/' {
			continue
		}
		if _, err := w.Write(entry.Body); err != nil {
			return nil, fmt.Errorf("writing entry %s: %w", entry.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildZipReader builds a ZIP archive in memory and opens it for reading.
func BuildZipReader(entries ...Entry) (*zip.Reader, error) {
	raw, err := BuildZipBytes(entries...)
	if err != nil {
		return nil, err
	}
	return zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
}

// PathTraversalEntries returns entries whose names attempt to escape the
// extraction root, alongside one legitimate entry.
func PathTraversalEntries() []Entry {
	return []Entry{
		{Name: "../../evil.txt", Body: []byte("malicious content")},
		{Name: "../../../etc/passwd", Body: []byte("secret data")},
		{Name: "..\\..\\windows\\system32\\evil.dll", Body: []byte("windows payload")},
		{Name: "/etc/passwd", Body: []byte("absolute path attack")},
		{Name: "subdir/../../root.txt", Body: []byte("nested traversal")},
		{Name: "normal-file.txt", Body: []byte("legitimate content")},
	}
}

// Repeat returns a byte slice of the given length filled with a repeating
// pattern, for entries whose declared size matters more than their content.
func Repeat(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}
