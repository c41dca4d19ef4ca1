package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erp/ecocare/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add quotation notes", "add_quotation_notes"},
		{"Add-Exclusive-Index", "add_exclusive_index"},
		{"add__reference__prices", "add_reference_prices"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersAfterExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000003_create_trade.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000003_create_trade.down.sql"), nil, 0o644))

	mf, err := CreateMigration(dir, "add quotation notes", "Free text notes on quotations")
	require.NoError(t, err)
	assert.Equal(t, "000004", mf.Version)
	assert.Equal(t, filepath.Join(dir, "000004_add_quotation_notes.up.sql"), mf.UpPath)

	content, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Free text notes on quotations")
	assert.FileExists(t, mf.DownPath)

	list, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000003_create_trade", "000004_add_quotation_notes"}, list)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := filepath.Glob("../../../migrations/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)
	for _, up := range ups {
		base := filepath.Base(up)
		down := base[:len(base)-len(".up.sql")] + ".down.sql"
		_, err := migrations.FS.Open(down)
		assert.NoError(t, err, "missing %s", down)
	}
}
