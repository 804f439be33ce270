package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

func TestInitCmd_Use(t *testing.T) {
	assert.Equal(t, "init", initCmd.Use)
}

func TestInitCmd_RequiresAdminService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	adminService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"init"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PINECONE_API_KEY")
}

func TestInitCmd_ReportsReadyIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"init"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Ensuring index exists...")
	assert.Contains(t, buf.String(), "Index ready: 128 vectors (dimension 3072).")
}

func TestInitCmd_EmptyIndexIsInformational(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	adminService = &mockAdminService{
		ReadyFunc: func(_ context.Context) (domain.IndexStats, error) {
			return domain.IndexStats{}, domain.ErrIndexNotReady
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"init"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "holds no vectors yet")
	assert.Contains(t, buf.String(), "advisor ingest")
}

func TestInitCmd_EnsureIndexFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	adminService = &mockAdminService{
		EnsureIndexFunc: func(_ context.Context) error {
			return errors.New("quota exceeded")
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"init"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
