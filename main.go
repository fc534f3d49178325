package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"cfrlink/internal/run"
	"cfrlink/models"
)

func main() {
	app := &cli.App{
		Name:  "cfrlink",
		Usage: "link Federal Register final rules to the CFR divisions they amend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Value:   models.DefaultDataDir,
				Usage:   "directory for cached API responses, rule bodies, and results",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "title",
				Usage:     "link every unreserved part of a CFR title",
				ArgsUsage: "<title>",
				Action:    run.TitleAction,
			},
			{
				Name:      "part",
				Usage:     "link a single CFR part",
				ArgsUsage: "<title> <part>",
				Action:    run.PartAction,
			},
			{
				Name:  "runs",
				Usage: "list recent runs from the ledger",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Value:   20,
						Usage:   "maximum number of runs to show",
					},
				},
				Action: run.RunsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
