// Package ziputils provides safe ZIP archive extraction.
// This file contains the filename resolver implementing the naming policy.
package ziputils

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/VladimirKhil/ZipUtils/internal/hashutil"
)

// resolveFileName produces the final on-disk filename component for a file
// entry. The mode is applied first (unescaping happens before hashing, so a
// hashed name is the hash of the unescaped form), then the name is replaced
// with its deterministic hash when the mode demands it or when it exceeds
// maxLen. A defensive re-check surfaces ErrNameTooLong if even the hashed
// name does not fit.
func resolveFileName(entryPath string, mode NamingMode, maxLen int) (string, error) {
	name := path.Base(entryPath)

	if mode == NamingModeUnescape {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			return "", fmt.Errorf("unescaping name %q of entry %q: %w", name, entryPath, err)
		}
		if err := validateDecodedName(unescaped, entryPath); err != nil {
			return "", err
		}
		name = unescaped
	}

	if mode == NamingModeHash || len(name) > maxLen {
		name = hashutil.FileName(name)
	}

	if len(name) > maxLen {
		return "", fmt.Errorf(
			"resolved name %q for archive entry %q exceeds the maximum length of %d: %w",
			name, entryPath, maxLen, ErrNameTooLong,
		)
	}

	return name, nil
}

// validateDecodedName rejects decoded names that would change the target
// path. Entry validation runs on the raw stored path, so a percent-decoded
// name that reintroduces separators, relative segments, or NUL bytes must
// fail here or it would land outside the directory already resolved for
// the entry.
func validateDecodedName(name, entryPath string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\") || strings.ContainsRune(name, 0) {
		return fmt.Errorf(
			"unescaped name %q of archive entry %q is not a plain file name: %w",
			name, entryPath, ErrPathTraversal,
		)
	}
	return nil
}
