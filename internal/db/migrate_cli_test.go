package db

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")
	var out bytes.Buffer

	require.NoError(t, RunMigrateCommand([]string{"status"}, path, &out))
	assert.Contains(t, out.String(), "Current version: 0")

	out.Reset()
	require.NoError(t, RunMigrateCommand([]string{"up"}, path, &out))
	assert.Contains(t, out.String(), "All migrations applied")
	assert.Contains(t, out.String(), "Current version: 2")

	out.Reset()
	require.NoError(t, RunMigrateCommand([]string{"down"}, path, &out))
	assert.Contains(t, out.String(), "Current version: 1")

	out.Reset()
	require.NoError(t, RunMigrateCommand([]string{"force", "2"}, path, &out))
	assert.Contains(t, out.String(), "Forced version to 2")

	out.Reset()
	require.NoError(t, RunMigrateCommand([]string{"help"}, path, &out))
	assert.Contains(t, out.String(), "Usage: heartaxis migrate")
}

func TestRunMigrateCommandErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")

	tests := []struct {
		name string
		args []string
	}{
		{"no action", nil},
		{"unknown action", []string{"sideways"}},
		{"force without version", []string{"force"}},
		{"force with bad version", []string{"force", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, RunMigrateCommand(tt.args, path, &out))
		})
	}
}
