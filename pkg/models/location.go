package models

import (
	"fmt"
	"time"
)

// ArchiveLocation includes naming logics of archive files for one
// (date, source) unit. The rule is fixed so that re-archiving the same
// unit always writes the same local file name and the same S3 key, and
// an upload retry just overwrites the previous object.
//
// Key Format:
// s3://{bucket}/{prefix}archive/dt={2006-01-02}/src={source}/nginx.access.parquet
type ArchiveLocation struct {
	Prefix string
	Date   time.Time
	Source string
}

// NewArchiveLocation is constructor of ArchiveLocation.
func NewArchiveLocation(prefix string, date time.Time, source string) ArchiveLocation {
	return ArchiveLocation{
		Prefix: prefix,
		Date:   date,
		Source: source,
	}
}

// Datestamp returns the compact date form used in CLI arguments and
// local file names.
func (x ArchiveLocation) Datestamp() string {
	return x.Date.Format("20060102")
}

// DtKey returns date key for "dt="
func (x ArchiveLocation) DtKey() string {
	return x.Date.Format("2006-01-02")
}

// SrcKey returns source key for "src="
func (x ArchiveLocation) SrcKey() string {
	return x.Source
}

// FileName returns the local archive file name of the unit.
func (x ArchiveLocation) FileName() string {
	return fmt.Sprintf("%s.%s.nginx.access.parquet", x.Datestamp(), x.Source)
}

// Partition returns a partition related part of S3 key.
func (x ArchiveLocation) Partition() string {
	return "dt=" + x.DtKey() + "/src=" + x.SrcKey()
}

// S3Key returns full S3 key of the archive object on S3.
func (x ArchiveLocation) S3Key() string {
	return x.Prefix + "archive/" + x.Partition() + "/nginx.access.parquet"
}

// PartitionKeys returns map of key set for partitioning of query engines.
func (x ArchiveLocation) PartitionKeys() map[string]string {
	return map[string]string{
		"dt":  x.DtKey(),
		"src": x.SrcKey(),
	}
}
