package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

func TestCatalogCmd_Use(t *testing.T) {
	assert.Equal(t, "catalog", catalogCmd.Use)
}

func TestCatalogCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range catalogCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["list"])
	assert.True(t, names["summary"])
	assert.True(t, names["remove"])
}

func TestCatalogListCmd_RequiresCatalogService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	catalogService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"catalog", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "catalog service not configured")
}

func TestCatalogListCmd_EmptyCatalog(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	catalogService = &mockCatalogService{
		ListFunc: func() ([]domain.CatalogEntry, error) {
			return nil, nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"catalog", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Catalog is empty.")
}

func TestCatalogListCmd_RendersEntries(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"catalog", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "doc_1  [ok]")
	assert.Contains(t, out, "Title:  Student Handbook")
	assert.Contains(t, out, "URL:    https://uni.example/handbook.pdf")
	assert.Contains(t, out, "Chunks: 12")
	assert.Contains(t, out, "When:   2025-05-01 10:00:00")
	assert.Contains(t, out, "doc_2  [failed]")
	assert.Contains(t, out, "Total: 2 entries")
}

func TestCatalogListCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	catalogService = &mockCatalogService{
		ListFunc: func() ([]domain.CatalogEntry, error) {
			return nil, errors.New("file corrupted")
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"catalog", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "file corrupted")
}

func TestCatalogSummaryCmd_RendersTotals(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"catalog", "summary"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Entries:   2")
	assert.Contains(t, out, "Succeeded: 1")
	assert.Contains(t, out, "Failed:    1")
	assert.Contains(t, out, "Chunks:    12")
	assert.Contains(t, out, "Updated:   2025-05-02 10:00:00")
}

func TestCatalogSummaryCmd_SkipsZeroTimestamp(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	catalogService = &mockCatalogService{
		SummaryFunc: func() (domain.CatalogSummary, error) {
			return domain.CatalogSummary{}, nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"catalog", "summary"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.NotContains(t, buf.String(), "Updated:")
}

func TestCatalogRemoveCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"catalog", "remove"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestCatalogRemoveCmd_RemovesEntries(t *testing.T) {
	tests := []struct {
		name    string
		removed int
		want    string
	}{
		{name: "no entries", removed: 0, want: "No catalog entries for https://uni.example/doc."},
		{name: "one entry", removed: 1, want: "Removed 1 entry for https://uni.example/doc."},
		{name: "several entries", removed: 3, want: "Removed 3 entries for https://uni.example/doc."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestServices()
			defer cleanup()
			catalogService = &mockCatalogService{
				RemoveFunc: func(_ string) (int, error) {
					return tt.removed, nil
				},
			}

			buf := new(bytes.Buffer)
			rootCmd.SetOut(buf)
			rootCmd.SetArgs([]string{"catalog", "remove", "https://uni.example/doc"})
			defer func() {
				rootCmd.SetArgs(nil)
			}()

			err := rootCmd.Execute()

			assert.NoError(t, err)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestCatalogRemoveCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	catalogService = &mockCatalogService{
		RemoveFunc: func(_ string) (int, error) {
			return 0, errors.New("write failed")
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"catalog", "remove", "https://uni.example/doc"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "write failed")
}
