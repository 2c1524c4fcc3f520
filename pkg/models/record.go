package models

import "time"

// LogRecord is one access log line parsed into typed fields. Timestamp
// keeps the offset written in the log line and is never normalized to UTC.
// Size, Referer and UserAgent are nil when the line has "-" for them.
type LogRecord struct {
	RemoteHost string
	Timestamp  time.Time
	Method     string
	Path       string
	Protocol   string
	Status     int
	Size       *int64
	Referer    *string
	UserAgent  *string
	Source     string
}

// Date returns wall-clock date of the record in its own offset.
// A record logged at 2024-06-10T23:59:00+08:00 belongs to 2024-06-10.
func (x *LogRecord) Date() string {
	return x.Timestamp.Format("2006-01-02")
}

// ParseFailure is a line that could not be parsed. It is a reportable
// value, not an error: failures are counted and logged but never stop
// archiving of the rest of the unit.
type ParseFailure struct {
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

// AccessRow is the parquet schema of an archive file. Timestamp is
// serialized as RFC3339 text to keep the original offset.
type AccessRow struct {
	RemoteHost string  `parquet:"name=remote_host, type=UTF8, encoding=PLAIN_DICTIONARY" json:"remote_host"`
	Timestamp  string  `parquet:"name=timestamp, type=UTF8" json:"timestamp"`
	Method     string  `parquet:"name=method, type=UTF8, encoding=PLAIN_DICTIONARY" json:"method"`
	Path       string  `parquet:"name=path, type=UTF8" json:"path"`
	Protocol   string  `parquet:"name=protocol, type=UTF8, encoding=PLAIN_DICTIONARY" json:"protocol"`
	Status     int32   `parquet:"name=status, type=INT32" json:"status"`
	Size       *int64  `parquet:"name=size, type=INT64, repetitiontype=OPTIONAL" json:"size"`
	Referer    *string `parquet:"name=referer, type=UTF8, repetitiontype=OPTIONAL" json:"referer"`
	UserAgent  *string `parquet:"name=user_agent, type=UTF8, repetitiontype=OPTIONAL" json:"user_agent"`
	Source     string  `parquet:"name=source, type=UTF8, encoding=PLAIN_DICTIONARY" json:"source"`
}
