package main

import (
	"encoding/json"
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/logarc/logarc/pkg/models"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

type inspectArguments struct {
	Limit  int
	Pretty bool
}

func inspectCommand(args *globalArguments) *cli.Command {
	var inspectArgs inspectArguments

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Dump rows of local archive files",
		ArgsUsage: "FILE [FILE...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("at least one archive file is required")
			}
			return inspectAction(inspectArgs, c.Args().Slice())
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "Max rows per file (0 is all rows)",
				Value:       10,
				Destination: &inspectArgs.Limit,
			},
			&cli.BoolFlag{
				Name:        "pretty",
				Usage:       "Pretty-print rows instead of JSON lines",
				Destination: &inspectArgs.Pretty,
			},
		},
	}
}

func inspectAction(inspectArgs inspectArguments, files []string) error {
	for _, file := range files {
		if err := inspectParquetFile(file, inspectArgs.Limit, inspectArgs.Pretty); err != nil {
			return err
		}
	}

	return nil
}

func inspectParquetFile(filepath string, limit int, pretty bool) error {
	fr, err := local.NewLocalFileReader(filepath)
	if err != nil {
		return errors.Wrapf(err, "Failed to open: %s", filepath)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(models.AccessRow), 1)
	if err != nil {
		return errors.Wrap(err, "Failed to create parquet reader")
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	fmt.Printf("%s: %d rows\n", filepath, num)

	if limit > 0 && num > limit {
		num = limit
	}

	for i := 0; i < num; i++ {
		rows := make([]models.AccessRow, 1)
		if err := pr.Read(&rows); err != nil {
			return errors.Wrap(err, "Failed to read a row")
		}

		if pretty {
			pp.Println(rows[0])
			continue
		}

		raw, err := json.Marshal(rows[0])
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
	}

	return nil
}
