package models

// UnitState is a lifecycle stage of one (date, source) archive unit.
type UnitState string

const (
	UnitPending   UnitState = "pending"
	UnitLocating  UnitState = "locating"
	UnitParsing   UnitState = "parsing"
	UnitWriting   UnitState = "writing"
	UnitUploading UnitState = "uploading"
	UnitDone      UnitState = "done"
	UnitFailed    UnitState = "failed"
)

// UnitReport is the outcome of one unit. A unit that found no log file
// still finishes as done with zero records. FailedAt keeps the stage at
// which a failed unit stopped.
type UnitReport struct {
	Date           string    `json:"date"`
	Source         string    `json:"source"`
	State          UnitState `json:"state"`
	FailedAt       UnitState `json:"failed_at,omitempty"`
	Files          int       `json:"files"`
	Records        int       `json:"records"`
	ParseFailures  int       `json:"parse_failures"`
	Skipped        int       `json:"skipped"`
	BytesWritten   int64     `json:"bytes_written"`
	ArchivePath    string    `json:"archive_path,omitempty"`
	RemotePath     string    `json:"remote_path,omitempty"`
	SourcesDeleted int       `json:"sources_deleted"`
	Error          string    `json:"error,omitempty"`
}

// Done returns true when the unit completed the whole pipeline.
func (x *UnitReport) Done() bool {
	return x.State == UnitDone
}

// RunReport merges unit outcomes of one archive run.
type RunReport struct {
	RunID string        `json:"run_id"`
	Date  string        `json:"date"`
	Units []*UnitReport `json:"units"`
}

// OK returns true only when every unit is done.
func (x *RunReport) OK() bool {
	for _, unit := range x.Units {
		if !unit.Done() {
			return false
		}
	}
	return true
}

// FailedUnits returns units that did not finish.
func (x *RunReport) FailedUnits() []*UnitReport {
	var failed []*UnitReport
	for _, unit := range x.Units {
		if !unit.Done() {
			failed = append(failed, unit)
		}
	}
	return failed
}

// TotalRecords sums archived records over all units.
func (x *RunReport) TotalRecords() int {
	total := 0
	for _, unit := range x.Units {
		total += unit.Records
	}
	return total
}

// TotalParseFailures sums unparseable lines over all units.
func (x *RunReport) TotalParseFailures() int {
	total := 0
	for _, unit := range x.Units {
		total += unit.ParseFailures
	}
	return total
}
