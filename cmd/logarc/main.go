package main

import (
	"os"

	"github.com/logarc/logarc/internal"
	"github.com/logarc/logarc/internal/adaptor"
	cli "github.com/urfave/cli/v2"
)

var logger = internal.Logger

type globalArguments struct {
	AwsRegion string
	S3Bucket  string
	S3Prefix  string
	LogLevel  string
	LogFormat string
	SentryDSN string
	SentryEnv string

	// NewS3 replaces the AWS SDK client factory in tests.
	NewS3 adaptor.S3ClientFactory
}

func (x *globalArguments) newS3() adaptor.S3ClientFactory {
	if x.NewS3 != nil {
		return x.NewS3
	}
	return adaptor.NewS3Client
}

func main() {
	var args globalArguments

	app := &cli.App{
		Name:  "logarc",
		Usage: "Daily access log archiver for S3",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "region",
				Aliases:     []string{"r"},
				Usage:       "AWS region of the archive bucket",
				EnvVars:     []string{"AWS_REGION"},
				Destination: &args.AwsRegion,
			},
			&cli.StringFlag{
				Name:        "bucket",
				Aliases:     []string{"b"},
				Usage:       "S3 bucket for archive objects",
				EnvVars:     []string{"LOGARC_S3_BUCKET"},
				Destination: &args.S3Bucket,
			},
			&cli.StringFlag{
				Name:        "prefix",
				Aliases:     []string{"p"},
				Usage:       "Key prefix of archive objects",
				EnvVars:     []string{"LOGARC_S3_PREFIX"},
				Destination: &args.S3Prefix,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"l"},
				Usage:       "Log level [TRACE|DEBUG|INFO|WARN|ERROR]",
				EnvVars:     []string{"LOG_LEVEL"},
				Value:       "INFO",
				Destination: &args.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format [text|json]",
				EnvVars:     []string{"LOG_FORMAT"},
				Value:       "text",
				Destination: &args.LogFormat,
			},
			&cli.StringFlag{
				Name:        "sentry-dsn",
				EnvVars:     []string{"SENTRY_DSN"},
				Destination: &args.SentryDSN,
			},
			&cli.StringFlag{
				Name:        "sentry-env",
				EnvVars:     []string{"SENTRY_ENVIRONMENT"},
				Destination: &args.SentryEnv,
			},
		},
		Before: func(c *cli.Context) error {
			internal.SetLogLevel(args.LogLevel)
			internal.SetLogFormat(args.LogFormat)
			internal.InitErrorHandler(args.SentryDSN, args.SentryEnv)
			return nil
		},
		Commands: []*cli.Command{
			archiveCommand(&args),
			cleanCommand(&args),
			inspectCommand(&args),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		internal.FlushError()
		logger.WithError(err).Fatal("Abort")
	}
}
