package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/config"
	"github.com/exxata/connect-api/internal/storage"
)

var (
	_ storage.Storage = (*storage.LocalStorage)(nil)
	_ storage.Storage = (*storage.AzureBlobStorage)(nil)
)

func localStore(t *testing.T) *storage.LocalStorage {
	t.Helper()
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return ls
}

func TestNewLocalStorage_CreatesBaseDirectory(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), "uploads")

	ls, err := storage.NewLocalStorage(basePath)
	require.NoError(t, err)
	require.NotNil(t, ls)

	info, err := os.Stat(basePath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalStorage_Upload(t *testing.T) {
	ls := localStore(t)

	tests := []struct {
		name        string
		filename    string
		contentType string
		content     []byte
	}{
		{"pdf report", "laudo-pericial.pdf", "application/pdf", []byte("fake pdf content")},
		{"schedule workbook", "cronograma-obra.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte("workbook bytes")},
		{"jpeg photo", "foto-canteiro.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}},
		{"name with spaces", "ata de reuniao.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("docx content")},
		{"empty file", "vazio.txt", "text/plain", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storagePath, size, err := ls.Upload(context.Background(), tt.filename, tt.contentType, bytes.NewReader(tt.content))
			require.NoError(t, err)
			assert.NotEmpty(t, storagePath)
			assert.Equal(t, int64(len(tt.content)), size)
			assert.Equal(t, filepath.Ext(tt.filename), filepath.Ext(storagePath))
		})
	}
}

func TestLocalStorage_ShardedPathLayout(t *testing.T) {
	ls := localStore(t)

	storagePath, _, err := ls.Upload(context.Background(), "medicao.xlsx", "application/octet-stream", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	// paths fan out as aa/bb/<id>.<ext> from the generated id
	parts := strings.Split(filepath.ToSlash(storagePath), "/")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 2)
	assert.Len(t, parts[1], 2)
	assert.True(t, strings.HasPrefix(parts[2], parts[0]+parts[1]))
}

func TestLocalStorage_DownloadRoundtrip(t *testing.T) {
	ls := localStore(t)

	tests := []struct {
		name    string
		content []byte
	}{
		{"small", []byte("conteudo pequeno")},
		{"medium", bytes.Repeat([]byte("x"), 1024)},
		{"large", bytes.Repeat([]byte("L"), 1024*100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storagePath, size, err := ls.Upload(context.Background(), "arquivo.bin", "application/octet-stream", bytes.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.content)), size)

			reader, err := ls.Download(context.Background(), storagePath)
			require.NoError(t, err)
			defer reader.Close()

			got, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, tt.content, got)
		})
	}
}

func TestLocalStorage_DownloadMissingFile(t *testing.T) {
	ls := localStore(t)

	reader, err := ls.Download(context.Background(), "ab/cd/abcd-missing.pdf")

	require.Error(t, err)
	assert.Nil(t, reader)
	assert.Contains(t, err.Error(), "file not found")
}

func TestLocalStorage_DeleteIsIdempotent(t *testing.T) {
	ls := localStore(t)

	storagePath, _, err := ls.Upload(context.Background(), "descartar.txt", "text/plain", bytes.NewReader([]byte("delete me")))
	require.NoError(t, err)

	require.NoError(t, ls.Delete(context.Background(), storagePath))

	_, err = ls.Download(context.Background(), storagePath)
	require.Error(t, err)

	// second delete and deleting something that never existed both succeed
	assert.NoError(t, ls.Delete(context.Background(), storagePath))
	assert.NoError(t, ls.Delete(context.Background(), "ab/cd/nunca-existiu.txt"))
}

func TestLocalStorage_SameFilenameGetsUniquePath(t *testing.T) {
	ls := localStore(t)

	paths := make(map[string]bool)
	for i := 0; i < 5; i++ {
		storagePath, _, err := ls.Upload(context.Background(), "contrato.pdf", "application/pdf", bytes.NewReader([]byte("same content")))
		require.NoError(t, err)
		assert.False(t, paths[storagePath], "path reused: %s", storagePath)
		paths[storagePath] = true
	}
	assert.Len(t, paths, 5)
}

func TestNewStorage_LocalMode(t *testing.T) {
	cfg := &config.StorageConfig{
		Mode:          "local",
		LocalBasePath: filepath.Join(t.TempDir(), "files"),
	}

	store, err := storage.NewStorage(cfg, zap.NewNop())

	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, store)
}

func TestNewStorage_CloudModeRequiresConnectionString(t *testing.T) {
	cfg := &config.StorageConfig{Mode: "cloud", CloudContainer: "exxata-files"}

	store, err := storage.NewStorage(cfg, zap.NewNop())

	require.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "connection string")
}

func TestNewStorage_UnknownMode(t *testing.T) {
	store, err := storage.NewStorage(&config.StorageConfig{Mode: "ftp"}, zap.NewNop())

	require.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "unsupported storage mode")
}
