package ziputils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladimirKhil/ZipUtils/internal/hashutil"
)

// TestResolveFileName tests the naming policy over its modes.
func TestResolveFileName(t *testing.T) {
	tests := []struct {
		name      string
		entryPath string
		mode      NamingMode
		maxLen    int
		want      string
	}{
		{
			name:      "keep original",
			entryPath: "Images/photo.png",
			mode:      NamingModeKeepOriginal,
			maxLen:    200,
			want:      "photo.png",
		},
		{
			name:      "keep original at root",
			entryPath: "content.xml",
			mode:      NamingModeKeepOriginal,
			maxLen:    200,
			want:      "content.xml",
		},
		{
			name:      "unescape percent encoding",
			entryPath: "docs/hello%20world.txt",
			mode:      NamingModeUnescape,
			maxLen:    200,
			want:      "hello world.txt",
		},
		{
			name:      "unescape with nothing to decode",
			entryPath: "plain.txt",
			mode:      NamingModeUnescape,
			maxLen:    200,
			want:      "plain.txt",
		},
		{
			name:      "hash mode replaces name",
			entryPath: "Images/photo.png",
			mode:      NamingModeHash,
			maxLen:    200,
			want:      hashutil.FileName("photo.png"),
		},
		{
			name:      "over-long name forces hash",
			entryPath: strings.Repeat("n", 150) + ".dat",
			mode:      NamingModeKeepOriginal,
			maxLen:    100,
			want:      hashutil.FileName(strings.Repeat("n", 150) + ".dat"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFileName(tt.entryPath, tt.mode, tt.maxLen)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestResolveFileNameHashOfUnescapedForm tests that unescaping happens
// before length-forced hashing, so the hash input is the decoded name.
func TestResolveFileNameHashOfUnescapedForm(t *testing.T) {
	long := strings.Repeat("a", 80)
	entryPath := "dir/" + long + "%20" + long + ".txt"

	got, err := resolveFileName(entryPath, NamingModeUnescape, 100)
	require.NoError(t, err)
	assert.Equal(t, hashutil.FileName(long+" "+long+".txt"), got)
}

// TestResolveFileNameTooLong tests the defensive re-check when even the
// hashed name exceeds the limit.
func TestResolveFileNameTooLong(t *testing.T) {
	_, err := resolveFileName("Images/photo.png", NamingModeHash, 12)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameTooLong)
	assert.Contains(t, err.Error(), "Images/photo.png")
	assert.Contains(t, err.Error(), "12")
}

// TestResolveFileNameUnescapeTraversalRejected tests that a decoded name
// reintroducing separators or relative segments fails with ErrPathTraversal
// instead of redirecting the write.
func TestResolveFileNameUnescapeTraversalRejected(t *testing.T) {
	hostile := []string{
		"%2e.%2fevil.txt",
		".%2e%2fevil.txt",
		"%2e%2e",
		"%2e",
		"%2f",
		"a%2fb.txt",
		"a%5cb.txt",
		"evil%00name.txt",
	}

	for _, entryPath := range hostile {
		t.Run(entryPath, func(t *testing.T) {
			_, err := resolveFileName(entryPath, NamingModeUnescape, 200)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPathTraversal)
		})
	}
}

// TestResolveFileNameInvalidEscape tests that a malformed percent escape
// surfaces as an error in unescape mode.
func TestResolveFileNameInvalidEscape(t *testing.T) {
	_, err := resolveFileName("bad%zzname.txt", NamingModeUnescape, 200)
	require.Error(t, err)
}

// TestResolveFileNameDeterministic tests hash stability across calls.
func TestResolveFileNameDeterministic(t *testing.T) {
	first, err := resolveFileName("Images/photo.png", NamingModeHash, 200)
	require.NoError(t, err)
	second, err := resolveFileName("Images/photo.png", NamingModeHash, 200)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasSuffix(first, ".png"))
}
