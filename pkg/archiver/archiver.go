package archiver

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/logarc/logarc/internal"
	"github.com/logarc/logarc/internal/adaptor"
	"github.com/logarc/logarc/internal/service"
	"github.com/logarc/logarc/pkg/models"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

const defaultWorkers = 4

// Config has all settings of one archive run. The command layer binds
// flags and environment variables into it; nothing below reads the
// environment directly.
type Config struct {
	Date    time.Time
	Sources []string
	LogDir  string
	OutDir  string

	AwsRegion    string
	S3Bucket     string
	S3Prefix     string
	StorageClass string

	DeleteSource  bool
	KeepArchive   bool
	Workers       int
	UploadTimeout time.Duration

	// NewS3 replaces the AWS SDK client factory in tests.
	NewS3 adaptor.S3ClientFactory
}

// Archiver runs the locate, parse, write, upload pipeline of a target
// date, one unit per source.
type Archiver struct {
	config Config
}

// New is constructor of Archiver
func New(config Config) *Archiver {
	return &Archiver{config: config}
}

// Run archives every (date, source) unit on a worker pool and merges
// unit outcomes into one report. Units never affect each other; the
// report order follows the configured source order.
func (x *Archiver) Run(ctx context.Context) *models.RunReport {
	report := &models.RunReport{
		RunID: uuid.New().String(),
		Date:  x.config.Date.Format("2006-01-02"),
	}

	sources := uniqueSources(x.config.Sources)

	workers := x.config.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	logger.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"date":    report.Date,
		"sources": sources,
		"workers": workers,
	}).Info("Start archive run")

	srcCh := make(chan string)
	resultCh := make(chan *models.UnitReport)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range srcCh {
				resultCh <- x.runUnit(ctx, source)
			}
		}()
	}

	go func() {
		for _, source := range sources {
			srcCh <- source
		}
		close(srcCh)
		wg.Wait()
		close(resultCh)
	}()

	bySource := make(map[string]*models.UnitReport, len(sources))
	for unit := range resultCh {
		bySource[unit.Source] = unit
	}

	for _, source := range sources {
		if unit, ok := bySource[source]; ok {
			report.Units = append(report.Units, unit)
		}
	}

	logger.WithFields(logrus.Fields{
		"run_id":         report.RunID,
		"units":          len(report.Units),
		"failed":         len(report.FailedUnits()),
		"records":        report.TotalRecords(),
		"parse_failures": report.TotalParseFailures(),
	}).Info("Finished archive run")

	return report
}

func (x *Archiver) s3Service() *service.S3Service {
	newS3 := x.config.NewS3
	if newS3 == nil {
		newS3 = adaptor.NewS3Client
	}
	return service.NewS3Service(newS3)
}

func (x *Archiver) outDir() string {
	if x.config.OutDir != "" {
		return x.config.OutDir
	}
	return os.TempDir()
}

func uniqueSources(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	var unique []string
	for _, source := range sources {
		if source == "" || seen[source] {
			continue
		}
		seen[source] = true
		unique = append(unique, source)
	}
	return unique
}
