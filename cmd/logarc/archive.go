package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/logarc/logarc/internal"
	"github.com/logarc/logarc/pkg/archiver"
	"github.com/logarc/logarc/pkg/models"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
)

type archiveArguments struct {
	Datestamp     string
	LogDir        string
	OutDir        string
	Sources       cli.StringSlice
	StorageClass  string
	DeleteSource  bool
	KeepArchive   bool
	Workers       int
	UploadTimeout time.Duration
}

func archiveCommand(args *globalArguments) *cli.Command {
	var archiveArgs archiveArguments

	return &cli.Command{
		Name:  "archive",
		Usage: "Archive access logs of one day to S3",
		Action: func(c *cli.Context) error {
			return archiveAction(*args, archiveArgs)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "date",
				Aliases:     []string{"d"},
				Usage:       "Target date as YYYYMMDD",
				Required:    true,
				Destination: &archiveArgs.Datestamp,
			},
			&cli.StringSliceFlag{
				Name:        "source",
				Aliases:     []string{"s"},
				Usage:       "Source (virtual host) directory name, repeatable",
				Required:    true,
				EnvVars:     []string{"LOGARC_SOURCES"},
				Destination: &archiveArgs.Sources,
			},
			&cli.StringFlag{
				Name:        "log-dir",
				Usage:       "Root directory of source log files",
				EnvVars:     []string{"LOGARC_LOG_DIR"},
				Value:       "/var/log/nginx",
				Destination: &archiveArgs.LogDir,
			},
			&cli.StringFlag{
				Name:        "out-dir",
				Usage:       "Work directory for archive files (default is the temp dir)",
				EnvVars:     []string{"LOGARC_OUT_DIR"},
				Destination: &archiveArgs.OutDir,
			},
			&cli.StringFlag{
				Name:        "storage-class",
				Usage:       "S3 storage class of archive objects",
				EnvVars:     []string{"LOGARC_STORAGE_CLASS"},
				Value:       "STANDARD_IA",
				Destination: &archiveArgs.StorageClass,
			},
			&cli.BoolFlag{
				Name:        "delete-source",
				Usage:       "Delete source log files after confirmed upload",
				Destination: &archiveArgs.DeleteSource,
			},
			&cli.BoolFlag{
				Name:        "keep-archive",
				Usage:       "Keep local archive files after upload",
				Destination: &archiveArgs.KeepArchive,
			},
			&cli.IntFlag{
				Name:        "workers",
				Usage:       "Number of units processed in parallel",
				Value:       4,
				Destination: &archiveArgs.Workers,
			},
			&cli.DurationFlag{
				Name:        "upload-timeout",
				Usage:       "Timeout of one unit upload (0 is no timeout)",
				Destination: &archiveArgs.UploadTimeout,
			},
		},
	}
}

func archiveAction(args globalArguments, archiveArgs archiveArguments) error {
	defer internal.FlushError()

	date, err := time.Parse("20060102", archiveArgs.Datestamp)
	if err != nil {
		return errors.Wrapf(err, "Fail to parse date, must be YYYYMMDD: %s", archiveArgs.Datestamp)
	}
	if args.S3Bucket == "" {
		return errors.New("--bucket or LOGARC_S3_BUCKET is required")
	}

	arc := archiver.New(archiver.Config{
		Date:          date,
		Sources:       archiveArgs.Sources.Value(),
		LogDir:        archiveArgs.LogDir,
		OutDir:        archiveArgs.OutDir,
		AwsRegion:     args.AwsRegion,
		S3Bucket:      args.S3Bucket,
		S3Prefix:      args.S3Prefix,
		StorageClass:  archiveArgs.StorageClass,
		DeleteSource:  archiveArgs.DeleteSource,
		KeepArchive:   archiveArgs.KeepArchive,
		Workers:       archiveArgs.Workers,
		UploadTimeout: archiveArgs.UploadTimeout,
		NewS3:         args.NewS3,
	})

	report := arc.Run(context.Background())
	printReport(report)

	if !report.OK() {
		return errors.Errorf("%d of %d units failed", len(report.FailedUnits()), len(report.Units))
	}

	return nil
}

func printReport(report *models.RunReport) {
	raw, err := json.Marshal(report)
	if err != nil {
		logger.WithError(err).Error("Fail to marshal run report")
		return
	}
	fmt.Println(string(raw))
}
