// Package validate provides path validation for archive extraction.
// It detects and rejects the path patterns used in zip-slip attacks and
// resolves entry targets so they cannot leave the extraction root.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// EntryValidator validates archive entry paths before extraction.
// It rejects absolute paths, traversal sequences (including URL-encoded
// variants), and bytes that filesystems cannot safely store.
type EntryValidator struct {
	// AllowHiddenFiles determines whether entries whose name starts with a
	// dot are allowed. Archives routinely carry dotfiles, so this defaults
	// to true.
	AllowHiddenFiles bool
}

// NewEntryValidator creates an EntryValidator with default settings.
func NewEntryValidator() *EntryValidator {
	return &EntryValidator{
		AllowHiddenFiles: true,
	}
}

// Validate checks an entry's full archive path for security issues.
// Returns nil if the path is safe, or an error describing the violation.
func (v *EntryValidator) Validate(entryPath string) error {
	if entryPath == "" || isWhitespaceOnly(entryPath) {
		return fmt.Errorf("empty entry path")
	}

	if isAbsolutePath(entryPath) {
		return fmt.Errorf("absolute path not allowed: %s", entryPath)
	}

	if err := detectTraversal(entryPath); err != nil {
		return err
	}

	if err := detectProblematicCharacters(entryPath); err != nil {
		return err
	}

	if !v.AllowHiddenFiles && isHidden(entryPath) {
		return fmt.Errorf("hidden files not allowed: %s", entryPath)
	}

	return nil
}

// IsSafe is a convenience method that reports whether the path is safe.
func (v *EntryValidator) IsSafe(entryPath string) bool {
	return v.Validate(entryPath) == nil
}

// ResolveTarget joins an entry's relative directory path under the
// canonicalized extraction root and guarantees the result stays inside it.
// Symlinks among existing components are resolved before the containment
// check so a link planted inside the root cannot redirect the write.
// A rel of "." or "" resolves to the root itself.
func ResolveTarget(rootAbs, rel string) (string, error) {
	if rel == "" || rel == "." {
		return rootAbs, nil
	}

	target, err := securejoin.SecureJoin(rootAbs, filepath.FromSlash(rel))
	if err != nil {
		return "", fmt.Errorf("resolving %s under %s: %w", rel, rootAbs, err)
	}

	// SecureJoin cannot escape the root by construction; keep an explicit
	// path-prefix check so a regression there cannot go unnoticed. The
	// separator suffix prevents cross-matching sibling directories that
	// share a name prefix.
	if target != rootAbs && !strings.HasPrefix(target, rootAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %s escapes extraction root %s", rel, rootAbs)
	}

	return target, nil
}

// detectTraversal detects direct and URL-encoded ".." traversal attempts.
func detectTraversal(entryPath string) error {
	if hasEncodedTraversal(entryPath) {
		return fmt.Errorf("encoded path traversal detected: %s", entryPath)
	}

	if strings.HasPrefix(filepath.Clean(filepath.FromSlash(entryPath)), "..") {
		return fmt.Errorf("path traversal detected: %s", entryPath)
	}

	if containsDotDotSegment(entryPath) {
		return fmt.Errorf("path traversal detected: %s", entryPath)
	}

	return nil
}

// hasEncodedTraversal checks for URL-encoded variants of "..".
func hasEncodedTraversal(entryPath string) bool {
	lower := strings.ToLower(entryPath)

	variants := []string{
		"..%2f", "..%5c",
		"%2e%2e%2f", "%2e%2e%5c",
		"%2e%2e/", "%2e%2e\\",
		"..%c0%af", "..%c1%9c",
	}

	for _, variant := range variants {
		if strings.Contains(lower, variant) {
			return true
		}
	}

	return false
}

// containsDotDotSegment checks every path segment, in both forward- and
// backslash form, for a literal "..".
func containsDotDotSegment(entryPath string) bool {
	if !strings.Contains(entryPath, "..") {
		return false
	}
	for _, sep := range []string{"/", "\\"} {
		for _, part := range strings.Split(entryPath, sep) {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// detectProblematicCharacters rejects bytes that break filesystem APIs.
func detectProblematicCharacters(entryPath string) error {
	for _, r := range entryPath {
		if r == 0 {
			return fmt.Errorf("NUL byte detected in path: %q", entryPath)
		}
		if r < 32 && r != '\t' {
			return fmt.Errorf("control character detected in path: %q (U+%04X)", entryPath, r)
		}
	}
	return nil
}

// isAbsolutePath checks for absolute paths on all platforms, including
// Windows drive letters and UNC paths.
func isAbsolutePath(entryPath string) bool {
	if filepath.IsAbs(entryPath) || strings.HasPrefix(entryPath, "/") {
		return true
	}

	if len(entryPath) >= 3 && entryPath[1] == ':' && (entryPath[2] == '\\' || entryPath[2] == '/') {
		drive := entryPath[0]
		if (drive >= 'A' && drive <= 'Z') || (drive >= 'a' && drive <= 'z') {
			return true
		}
	}

	return strings.HasPrefix(entryPath, "\\\\")
}

// isHidden reports whether any path component starts with a dot.
func isHidden(entryPath string) bool {
	for _, part := range strings.Split(entryPath, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// isWhitespaceOnly reports whether the path contains only whitespace.
func isWhitespaceOnly(entryPath string) bool {
	return strings.TrimSpace(entryPath) == ""
}
