package archiver

import "fmt"

// WriteError is a failure of local archive serialization. It fails only
// the unit it belongs to; other units keep running.
type WriteError struct {
	Path string
	Err  error
}

func (x *WriteError) Error() string {
	return fmt.Sprintf("archive write failed: %s: %v", x.Path, x.Err)
}

func (x *WriteError) Unwrap() error { return x.Err }

// UploadError is a failure of transfer to the object store. Source log
// files of the unit stay untouched when it occurs.
type UploadError struct {
	Remote string
	Err    error
}

func (x *UploadError) Error() string {
	return fmt.Sprintf("archive upload failed: %s: %v", x.Remote, x.Err)
}

func (x *UploadError) Unwrap() error { return x.Err }
