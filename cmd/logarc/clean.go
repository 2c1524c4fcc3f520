package main

import (
	"context"
	"strings"
	"time"

	"github.com/logarc/logarc/internal"
	"github.com/logarc/logarc/internal/service"
	"github.com/logarc/logarc/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

type cleanArguments struct {
	OlderThan int
	Suffix    string
	DryRun    bool
}

func cleanCommand(args *globalArguments) *cli.Command {
	var cleanArgs cleanArguments

	return &cli.Command{
		Name:  "clean",
		Usage: "Delete aged archive objects from S3",
		Action: func(c *cli.Context) error {
			return cleanAction(*args, cleanArgs)
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "older-than",
				Aliases:     []string{"o"},
				Usage:       "Delete objects whose last modified is over N days ago",
				Required:    true,
				Destination: &cleanArgs.OlderThan,
			},
			&cli.StringFlag{
				Name:        "suffix",
				Aliases:     []string{"e"},
				Usage:       "Only delete keys with the suffix",
				Value:       ".parquet",
				Destination: &cleanArgs.Suffix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Only log what would be deleted",
				Destination: &cleanArgs.DryRun,
			},
		},
	}
}

func cleanAction(args globalArguments, cleanArgs cleanArguments) error {
	defer internal.FlushError()

	if args.S3Bucket == "" {
		return errors.New("--bucket or LOGARC_S3_BUCKET is required")
	}
	if cleanArgs.OlderThan <= 0 {
		return errors.New("--older-than must be a positive number of days")
	}

	ctx := context.Background()
	svc := service.NewS3Service(args.newS3())
	base := models.NewS3Object(args.AwsRegion, args.S3Bucket, args.S3Prefix)

	metas, err := svc.ListObjects(ctx, base)
	if err != nil {
		return err
	}

	deadline := time.Now().AddDate(0, 0, -cleanArgs.OlderThan)

	var targets []*models.S3Object
	for _, meta := range metas {
		if !strings.HasSuffix(meta.Key, cleanArgs.Suffix) {
			continue
		}
		if meta.LastModified.After(deadline) {
			continue
		}

		logger.WithFields(logrus.Fields{
			"key":           meta.Key,
			"last_modified": meta.LastModified,
		}).Info("Clean target")

		obj := meta.S3Object
		targets = append(targets, &obj)
	}

	logger.WithFields(logrus.Fields{
		"bucket":  args.S3Bucket,
		"listed":  len(metas),
		"targets": len(targets),
		"dry_run": cleanArgs.DryRun,
	}).Info("Clean summary")

	if cleanArgs.DryRun || len(targets) == 0 {
		return nil
	}

	return svc.DeleteS3Objects(ctx, targets)
}
