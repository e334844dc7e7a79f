package ziputils

import (
	"errors"
	"fmt"
	"testing"
)

// TestExtractionErrorMessage tests the formatted error output.
func TestExtractionErrorMessage(t *testing.T) {
	err := NewExtractionError("extract", "Images/photo.png", ErrPathTraversal)

	want := "extract Images/photo.png: path escapes destination directory"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

// TestExtractionErrorUnwrap tests errors.Is/As through the wrapper.
func TestExtractionErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("declared size 2 GiB exceeds the allowed maximum of 1 GiB: %w", ErrSizeLimitExceeded)
	err := NewExtractionError("extract", "archive", inner)

	if !errors.Is(err, ErrSizeLimitExceeded) {
		t.Error("Expected errors.Is to find ErrSizeLimitExceeded through the wrapper")
	}

	var extractionErr *ExtractionError
	if !errors.As(error(err), &extractionErr) {
		t.Fatal("Expected errors.As to extract *ExtractionError")
	}
	if extractionErr.Op != "extract" {
		t.Errorf("Expected Op to be 'extract', got %q", extractionErr.Op)
	}
	if extractionErr.Entry != "archive" {
		t.Errorf("Expected Entry to be 'archive', got %q", extractionErr.Entry)
	}
}

// TestExtractionErrorClassifiers tests the convenience helpers.
func TestExtractionErrorClassifiers(t *testing.T) {
	tests := []struct {
		name          string
		err           *ExtractionError
		sizeLimit     bool
		pathTraversal bool
		nameTooLong   bool
	}{
		{
			name:      "size limit",
			err:       NewExtractionError("extract", "archive", ErrSizeLimitExceeded),
			sizeLimit: true,
		},
		{
			name:          "path traversal",
			err:           NewExtractionError("validate", "../../evil.txt", fmt.Errorf("%w: bad entry", ErrPathTraversal)),
			pathTraversal: true,
		},
		{
			name:        "name too long",
			err:         NewExtractionError("extract", "x.txt", fmt.Errorf("name does not fit: %w", ErrNameTooLong)),
			nameTooLong: true,
		},
		{
			name: "unrelated error",
			err:  NewExtractionError("open", "pack.zip", errors.New("no such file")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsSizeLimit(); got != tt.sizeLimit {
				t.Errorf("IsSizeLimit() = %t, want %t", got, tt.sizeLimit)
			}
			if got := tt.err.IsPathTraversal(); got != tt.pathTraversal {
				t.Errorf("IsPathTraversal() = %t, want %t", got, tt.pathTraversal)
			}
			if got := tt.err.IsNameTooLong(); got != tt.nameTooLong {
				t.Errorf("IsNameTooLong() = %t, want %t", got, tt.nameTooLong)
			}
		})
	}
}
