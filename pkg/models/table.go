package models

import (
	"errors"
	"time"
)

// ErrRecordMismatch is returned by Append for a record that does not
// belong to the table's (date, source) unit.
var ErrRecordMismatch = errors.New("record does not belong to the table unit")

// ArchiveTable accumulates records of one (date, source) unit as parallel
// column slices. Column order is fixed: remote_host, timestamp, method,
// path, protocol, status, size, referer, user_agent, source. The schema
// never changes with input; absent optional values stay nil.
type ArchiveTable struct {
	date   string
	source string

	remoteHosts []string
	timestamps  []time.Time
	methods     []string
	paths       []string
	protocols   []string
	statuses    []int32
	sizes       []*int64
	referers    []*string
	userAgents  []*string
	sources     []string
}

// NewArchiveTable creates an empty table bound to one unit.
func NewArchiveTable(date time.Time, source string) *ArchiveTable {
	return &ArchiveTable{
		date:   date.Format("2006-01-02"),
		source: source,
	}
}

// Date returns the unit date as 2006-01-02.
func (x *ArchiveTable) Date() string { return x.date }

// Source returns the unit source identifier.
func (x *ArchiveTable) Source() string { return x.source }

// Len returns the number of accumulated rows.
func (x *ArchiveTable) Len() int { return len(x.timestamps) }

// Append adds one record to every column. A record of another date or
// source is rejected with ErrRecordMismatch and the table stays unchanged.
func (x *ArchiveTable) Append(rec *LogRecord) error {
	if rec.Source != x.source || rec.Date() != x.date {
		return ErrRecordMismatch
	}

	x.remoteHosts = append(x.remoteHosts, rec.RemoteHost)
	x.timestamps = append(x.timestamps, rec.Timestamp)
	x.methods = append(x.methods, rec.Method)
	x.paths = append(x.paths, rec.Path)
	x.protocols = append(x.protocols, rec.Protocol)
	x.statuses = append(x.statuses, int32(rec.Status))
	x.sizes = append(x.sizes, rec.Size)
	x.referers = append(x.referers, rec.Referer)
	x.userAgents = append(x.userAgents, rec.UserAgent)
	x.sources = append(x.sources, rec.Source)

	return nil
}

// Row materializes the i-th row for serialization.
func (x *ArchiveTable) Row(i int) AccessRow {
	return AccessRow{
		RemoteHost: x.remoteHosts[i],
		Timestamp:  x.timestamps[i].Format(time.RFC3339),
		Method:     x.methods[i],
		Path:       x.paths[i],
		Protocol:   x.protocols[i],
		Status:     x.statuses[i],
		Size:       x.sizes[i],
		Referer:    x.referers[i],
		UserAgent:  x.userAgents[i],
		Source:     x.sources[i],
	}
}

// Rows materializes all rows in append order.
func (x *ArchiveTable) Rows() []AccessRow {
	rows := make([]AccessRow, x.Len())
	for i := range rows {
		rows[i] = x.Row(i)
	}
	return rows
}
