package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add counterparty mappings", "add_counterparty_mappings"},
		{"Add-Counterparty-Mappings", "add_counterparty_mappings"},
		{"ADD_SYNC_RECORDS", "add_sync_records"},
		{"add__sync__records", "add_sync_records"},
		{"Add Records 123", "add_records_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()

	mf, err := CreateMigration(tmpDir, "add sync records", "Create the sync record table")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// Version is a YYYYMMDDHHMMSS timestamp.
	assert.Len(t, mf.Version, 14)

	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add sync records")
	assert.Contains(t, string(upContent), "Create the sync record table")
	assert.Contains(t, string(upContent), "Write your UP migration SQL here")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback")
	assert.Contains(t, string(downContent), "Write your DOWN migration SQL here")
}

func TestListMigrations(t *testing.T) {
	tmpDir := t.TempDir()

	list, err := ListMigrations(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = CreateMigration(tmpDir, "first", "")
	require.NoError(t, err)

	list, err = ListMigrations(tmpDir)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0], "first")

	// Missing directory is not an error.
	list, err = ListMigrations(filepath.Join(tmpDir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, list)
}
