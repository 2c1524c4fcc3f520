package archiver_test

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/logarc/logarc/pkg/archiver"
	"github.com/logarc/logarc/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func readArchiveRows(t *testing.T, path string) []models.AccessRow {
	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(models.AccessRow), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	rows := make([]models.AccessRow, num)
	if num > 0 {
		require.NoError(t, pr.Read(&rows))
	}
	return rows
}

func TestWriteTable(t *testing.T) {
	dir, err := ioutil.TempDir("", "writer")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	date, _ := time.Parse("2006-01-02", "2024-06-10")
	table := models.NewArchiveTable(date, "www")

	size := int64(512)
	referer := "http://example.com/"
	ua := "Mozilla/5.0"
	ts := time.Date(2024, 6, 10, 13, 55, 36, 0, time.FixedZone("", 8*3600))

	require.NoError(t, table.Append(&models.LogRecord{
		RemoteHost: "127.0.0.1",
		Timestamp:  ts,
		Method:     "GET",
		Path:       "/index.html",
		Protocol:   "HTTP/1.1",
		Status:     200,
		Size:       &size,
		Referer:    &referer,
		UserAgent:  &ua,
		Source:     "www",
	}))
	require.NoError(t, table.Append(&models.LogRecord{
		RemoteHost: "10.0.0.9",
		Timestamp:  ts.Add(time.Minute),
		Method:     "HEAD",
		Path:       "/health",
		Protocol:   "HTTP/1.1",
		Status:     204,
		Source:     "www",
	}))

	dstPath := filepath.Join(dir, "20240610.www.nginx.access.parquet")
	result, err := archiver.WriteTable(table, dstPath)
	require.NoError(t, err)
	assert.Equal(t, dstPath, result.Path)
	assert.Equal(t, 2, result.Rows)
	assert.Greater(t, result.Bytes, int64(0))

	stat, err := os.Stat(dstPath)
	require.NoError(t, err)
	assert.Equal(t, result.Bytes, stat.Size())

	rows := readArchiveRows(t, dstPath)
	require.Len(t, rows, 2)

	assert.Equal(t, "127.0.0.1", rows[0].RemoteHost)
	assert.Equal(t, "2024-06-10T13:55:36+08:00", rows[0].Timestamp)
	assert.Equal(t, "GET", rows[0].Method)
	assert.Equal(t, int32(200), rows[0].Status)
	require.NotNil(t, rows[0].Size)
	assert.Equal(t, int64(512), *rows[0].Size)
	require.NotNil(t, rows[0].Referer)
	assert.Equal(t, "http://example.com/", *rows[0].Referer)

	assert.Equal(t, "HEAD", rows[1].Method)
	assert.Nil(t, rows[1].Size)
	assert.Nil(t, rows[1].Referer)
	assert.Nil(t, rows[1].UserAgent)

	// No leftover temp file next to the archive.
	entries, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteTableEmpty(t *testing.T) {
	dir, err := ioutil.TempDir("", "writer")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	date, _ := time.Parse("2006-01-02", "2024-06-10")
	table := models.NewArchiveTable(date, "www")

	dstPath := filepath.Join(dir, "empty.parquet")
	result, err := archiver.WriteTable(table, dstPath)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Rows)
	assert.Greater(t, result.Bytes, int64(0))

	rows := readArchiveRows(t, dstPath)
	assert.Empty(t, rows)
}

func TestWriteTableFailureLeavesNoFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "writer")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	date, _ := time.Parse("2006-01-02", "2024-06-10")
	table := models.NewArchiveTable(date, "www")

	dstPath := filepath.Join(dir, "no-such-dir", "broken.parquet")
	result, err := archiver.WriteTable(table, dstPath)
	require.Error(t, err)
	assert.Nil(t, result)

	var writeErr *archiver.WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, dstPath, writeErr.Path)

	_, statErr := os.Stat(dstPath)
	assert.True(t, os.IsNotExist(statErr))
}
