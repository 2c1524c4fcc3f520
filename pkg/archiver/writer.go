package archiver

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/logarc/logarc/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

const (
	// About parquet format: https://parquet.apache.org/documentation/latest/
	parquetRowGroupSize = 16 * 1024 * 1024 // 16MB
	parquetConcurrency  = 4
)

// WriteResult describes a completed local archive file.
type WriteResult struct {
	Path  string
	Bytes int64
	Rows  int
}

// WriteTable serializes the table into dstPath as a snappy compressed
// parquet file. The write goes to a temp file in the destination
// directory and the temp file is renamed into place at the end, so
// dstPath never holds a partial archive. Temp and destination must share
// a directory for the rename to stay atomic.
func WriteTable(table *models.ArchiveTable, dstPath string) (*WriteResult, error) {
	tmpPath := fmt.Sprintf("%s.%s.tmp", dstPath, uuid.New().String()[:8])

	result, err := writeParquet(table, tmpPath)
	if err != nil {
		removeTempFile(tmpPath)
		return nil, &WriteError{Path: dstPath, Err: err}
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		removeTempFile(tmpPath)
		return nil, &WriteError{Path: dstPath, Err: errors.Wrap(err, "Fail to rename a temp parquet file")}
	}

	result.Path = dstPath
	logger.WithFields(logrus.Fields{
		"path":  result.Path,
		"bytes": result.Bytes,
		"rows":  result.Rows,
	}).Debug("Wrote an archive file")

	return result, nil
}

func writeParquet(table *models.ArchiveTable, path string) (*WriteResult, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to create a parquet file")
	}

	pw, err := writer.NewParquetWriter(fw, new(models.AccessRow), parquetConcurrency)
	if err != nil {
		fw.Close()
		return nil, errors.Wrap(err, "Fail to create parquet writer")
	}

	pw.RowGroupSize = parquetRowGroupSize
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := 0; i < table.Len(); i++ {
		if err := pw.Write(table.Row(i)); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "Fail to write record as parquet: row %d", i)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return nil, errors.Wrap(err, "Fail to WriteStop")
	}

	if err := fw.Close(); err != nil {
		return nil, errors.Wrap(err, "Fail to close a parquet file")
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to stat a parquet file: %s", path)
	}

	return &WriteResult{Bytes: stat.Size(), Rows: table.Len()}, nil
}

func removeTempFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).WithField("path", path).Warn("Fail to remove a temp parquet file")
	}
}
