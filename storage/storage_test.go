package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"transparency-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportKey(t *testing.T) {
	assert.Equal(t, "user-1/chat-1_Kettle_Transparency_Report.pdf", ReportKey("user-1", "chat-1", "Kettle Transparency Report.pdf"))
	assert.Equal(t, "a_b/c_report.pdf", ReportKey("a/b", "c", ".pdf"))
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	location, err := s.Upload(ctx, "u1/report.pdf", "application/pdf", strings.NewReader("%PDF-1.3"))
	require.NoError(t, err)
	assert.FileExists(t, location)

	t.Run("upload replaces an earlier file", func(t *testing.T) {
		_, err := s.Upload(ctx, "u1/report.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
		require.NoError(t, err)

		rc, err := s.Download(ctx, "u1/report.pdf")
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(data))

		entries, err := os.ReadDir(filepath.Dir(location))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("keys cannot escape the base path", func(t *testing.T) {
		location, err := s.Upload(ctx, "../../escape.pdf", "application/pdf", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.basePath, "escape.pdf"), location)
	})

	require.NoError(t, s.Delete(ctx, "u1/report.pdf"))
	require.NoError(t, s.Delete(ctx, "u1/report.pdf"))

	_, err = s.Download(ctx, "u1/report.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Upload(ctx, "", "application/pdf", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	s, err := NewStorage(ctx, config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(ctx, config.StorageConfig{Type: "s3"})
	assert.Error(t, err)

	_, err = NewStorage(ctx, config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}
