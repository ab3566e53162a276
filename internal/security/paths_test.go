package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePathWithin(t *testing.T) {
	tmpDir := t.TempDir()
	safeDir := filepath.Join(tmpDir, "safe")
	unsafeDir := filepath.Join(tmpDir, "unsafe")
	require.NoError(t, os.MkdirAll(safeDir, 0755))
	require.NoError(t, os.MkdirAll(unsafeDir, 0755))
	require.NoError(t, os.Symlink(unsafeDir, filepath.Join(safeDir, "evil-symlink")))

	tests := []struct {
		name    string
		path    string
		dir     string
		wantErr bool
	}{
		{"file in dir", filepath.Join(safeDir, "axis.png"), safeDir, false},
		{"nested new path", filepath.Join(safeDir, "a", "b", "axis.png"), safeDir, false},
		{"dir itself", safeDir, safeDir, false},
		{"dot dot escape", filepath.Join(safeDir, "..", "axis.png"), safeDir, true},
		{"relative escape", "../../../etc/passwd", safeDir, true},
		{"sibling dir", filepath.Join(unsafeDir, "x.png"), safeDir, true},
		{"symlinked parent", filepath.Join(safeDir, "evil-symlink", "x.png"), safeDir, true},
		{"missing dir", filepath.Join(safeDir, "x.png"), filepath.Join(tmpDir, "nope"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithin(tt.path, tt.dir)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	assert.NoError(t, ValidateOutputPath(filepath.Join(t.TempDir(), "axis.png")))
	assert.NoError(t, ValidateOutputPath("axis.png"))
	assert.Error(t, ValidateOutputPath("/proc/axis.png"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"axis_5_-7.png", "axis_5_-7.png"},
		{"patient 21000", "patient_21000"},
		{"../../etc/passwd", "etc_passwd"},
		{"a//b??c", "a_b_c"},
		{"", "unknown"},
		{"///", "unknown"},
		{"...", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}

	long := SanitizeFilename(strings.Repeat("x", 300))
	assert.Len(t, long, 128)
}
