package archiver

import (
	"context"
	"os"
	"path/filepath"

	"github.com/logarc/logarc/internal"
	"github.com/logarc/logarc/pkg/locator"
	"github.com/logarc/logarc/pkg/models"
	"github.com/logarc/logarc/pkg/parser"
	"github.com/sirupsen/logrus"
)

// runUnit drives one (date, source) unit through the pipeline. A failure
// marks only this unit; the report keeps the stage at which it stopped.
func (x *Archiver) runUnit(ctx context.Context, source string) *models.UnitReport {
	report := &models.UnitReport{
		Date:   x.config.Date.Format("2006-01-02"),
		Source: source,
		State:  models.UnitPending,
	}

	if err := x.processUnit(ctx, source, report); err != nil {
		report.FailedAt = report.State
		report.State = models.UnitFailed
		report.Error = err.Error()

		logger.WithError(err).WithFields(logrus.Fields{
			"date":      report.Date,
			"source":    source,
			"failed_at": report.FailedAt,
		}).Error("Unit failed")
		internal.HandleError(err)
	}

	return report
}

func (x *Archiver) processUnit(ctx context.Context, source string, report *models.UnitReport) error {
	unitLogger := logger.WithFields(logrus.Fields{
		"date":   report.Date,
		"source": source,
	})
	sw := internal.NewStopwatch()

	report.State = models.UnitLocating
	sw.Phase("locate")
	paths, err := locator.Locate(x.config.LogDir, x.config.Date, source)
	if err != nil {
		return err
	}
	report.Files = len(paths)
	unitLogger.WithField("files", len(paths)).Debug("Located log files")

	report.State = models.UnitParsing
	sw.Phase("parse")
	table := models.NewArchiveTable(x.config.Date, source)
	p := parser.New(source)

	for _, path := range paths {
		err := eachLine(path, func(line string) {
			rec, failure := p.Parse(line)
			if failure != nil {
				report.ParseFailures++
				unitLogger.WithFields(logrus.Fields{
					"line":   failure.Line,
					"reason": failure.Reason,
				}).Warn("Unparseable log line")
				return
			}
			if rec == nil {
				return // blank line
			}

			if err := table.Append(rec); err != nil {
				// Rotation smear: the shard holds lines of another day.
				report.Skipped++
				unitLogger.WithField("record_date", rec.Date()).Debug("Skip record out of the unit")
			}
		})
		if err != nil {
			return err
		}
	}
	report.Records = table.Len()

	if table.Len() == 0 {
		// A quiet day still finishes the unit. No archive object is
		// worth creating for zero records, and source files (if any)
		// stay in place because nothing was confirmed uploaded.
		unitLogger.Info("No records for the unit")
		report.State = models.UnitDone
		return nil
	}

	report.State = models.UnitWriting
	sw.Phase("write")
	loc := models.NewArchiveLocation(x.config.S3Prefix, x.config.Date, source)
	result, err := WriteTable(table, filepath.Join(x.outDir(), loc.FileName()))
	if err != nil {
		return err
	}
	report.BytesWritten = result.Bytes
	report.ArchivePath = result.Path

	report.State = models.UnitUploading
	sw.Phase("upload")
	upCtx := ctx
	if x.config.UploadTimeout > 0 {
		var cancel context.CancelFunc
		upCtx, cancel = context.WithTimeout(ctx, x.config.UploadTimeout)
		defer cancel()
	}

	dst := models.NewS3Object(x.config.AwsRegion, x.config.S3Bucket, loc.S3Key())
	if err := x.s3Service().UploadFileToS3(upCtx, result.Path, dst, x.config.StorageClass); err != nil {
		return &UploadError{Remote: dst.Path(), Err: err}
	}
	report.RemotePath = dst.Path()
	unitLogger.WithFields(logrus.Fields{
		"remote": dst.Path(),
		"bytes":  result.Bytes,
		"rows":   result.Rows,
	}).Info("Uploaded an archive")

	report.State = models.UnitDone

	// Cleanup below never un-does the unit: the archive is confirmed on
	// S3 already.
	sw.Phase("cleanup")
	if !x.config.KeepArchive {
		if err := os.Remove(result.Path); err != nil {
			unitLogger.WithError(err).WithField("path", result.Path).Warn("Fail to remove a local archive file")
		}
	}

	if x.config.DeleteSource {
		for _, path := range paths {
			if err := os.Remove(path); err != nil {
				unitLogger.WithError(err).WithField("path", path).Warn("Fail to delete a source log file")
				continue
			}
			report.SourcesDeleted++
		}
		unitLogger.WithField("deleted", report.SourcesDeleted).Info("Deleted source log files")
	}

	unitLogger.WithField("elapsed", sw.Laps()).Debug("Unit finished")
	return nil
}
