// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the fanout command: flags, argument handling and the
// mapping of run outcomes to process exit codes.
package run

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matt-FFFFFF/fanout"
	"github.com/matt-FFFFFF/fanout/internal/commandfile"
	"github.com/matt-FFFFFF/fanout/internal/controller"
	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
	"github.com/matt-FFFFFF/fanout/internal/launch"
	"github.com/matt-FFFFFF/fanout/internal/metrics"
	"github.com/matt-FFFFFF/fanout/internal/report"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag                   = "file"
	outFlag                    = "out"
	metricsFileFlag            = "metrics-file"
	logJSONFlag                = "log-json"
	fetchTimeoutFlag           = "fetch-timeout"
	fetchTimeoutSecondsDefault = 30
	cliExitStr                 = ""
)

// Exit codes of the controller process.
const (
	ExitOK             = 0
	ExitUsage          = 1
	ExitNothingStarted = 2
	ExitOutputError    = 4
)

// SystemFactory returns the process starter and waiter used for a run.
var SystemFactory = func() (launch.Starter, launch.Waiter, error) {
	s, err := launch.NewProcessStarter()
	if err != nil {
		return nil, nil, err
	}

	return s, launch.ChildWaiter{}, nil
}

// FsFactory returns the filesystem the run report is written to.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// NewCommand returns the fanout command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "fanout",
		Usage:     "launch every command at once and report how each one ended",
		ArgsUsage: "<commandPath1> [<commandPath2> ...]",
		Description: `Launch every given program as a separate child process, all at once,
then wait for each to finish and report whether it succeeded.

Programs are run without arguments. Results are printed in the order the
programs finish. Command paths can also be read from YAML or HCL files with
--file, which accepts Hashicorp's go-getter syntax for fetching remote files.
See https://github.com/hashicorp/go-getter.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    fileFlag,
				Aliases: []string{"f"},
				Usage: "Read command paths from a YAML or .hcl file. " +
					"Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
					"Specify multiple times to read multiple files.",
				OnlyOnce: false,
			},
			&cli.StringFlag{
				Name:      outFlag,
				Aliases:   []string{"o"},
				Usage:     "Write a run report to this file, as JSON if the name ends in .json, otherwise YAML",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.StringFlag{
				Name:      metricsFileFlag,
				Usage:     "Write Prometheus metrics for the run to this file in text format",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.BoolFlag{
				Name:        logJSONFlag,
				Usage:       "Write diagnostic logs to stderr as JSON",
				Value:       false,
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.IntFlag{
				Name:  fetchTimeoutFlag,
				Usage: "Set the maximum time in seconds to wait for command files to be fetched.",
				Value: fetchTimeoutSecondsDefault,
			},
		},
		Before: beforeFunc,
		Action: actionFunc,
	}
}

func beforeFunc(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool(logJSONFlag) {
		return ctxlog.New(ctx, ctxlog.JSONLogger), nil
	}

	return ctx, nil
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	paths := cmd.Args().Slice()

	if files := cmd.StringSlice(fileFlag); len(files) > 0 {
		fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(cmd.Int(fetchTimeoutFlag))*time.Second)
		defer cancel()

		fromFiles, err := commandfile.LoadAll(fetchCtx, files)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to load command files: %s", err.Error()))
			return cli.Exit(err, ExitOutputError)
		}

		paths = append(paths, fromFiles...)
	}

	starter, waiter, err := SystemFactory()
	if err != nil {
		return cli.Exit(err, ExitNothingStarted)
	}

	c := &controller.Controller{
		Starter: starter,
		Waiter:  waiter,
		Printer: report.NewPrinter(cmd.Root().Writer),
		RunID:   report.NewRunID(),
	}

	metricsFile := cmd.String(metricsFileFlag)
	if metricsFile != "" {
		c.Metrics = metrics.NewCollector(c.RunID, fanout.Version)
	}

	sum, runErr := c.Run(ctx, paths)

	if errors.Is(runErr, controller.ErrNoCommands) {
		return cli.Exit(cliExitStr, ExitUsage)
	}

	if err := writeOutputs(ctx, cmd, c, sum); err != nil {
		return cli.Exit(err, ExitOutputError)
	}

	switch {
	case errors.Is(runErr, controller.ErrNothingLaunched):
		return cli.Exit(cliExitStr, ExitNothingStarted)
	case runErr != nil:
		return cli.Exit(runErr, ExitOutputError)
	}

	return nil
}

func writeOutputs(ctx context.Context, cmd *cli.Command, c *controller.Controller, sum *report.Summary) error {
	logger := ctxlog.Logger(ctx)

	var err error

	if out := cmd.String(outFlag); out != "" && sum != nil {
		if wErr := sum.WriteFile(FsFactory(), out); wErr != nil {
			err = errors.Join(err, wErr)
		} else {
			logger.Info(fmt.Sprintf("Run report written to %s", out))
		}
	}

	if mf := cmd.String(metricsFileFlag); mf != "" && c.Metrics != nil {
		if wErr := c.Metrics.WriteTextfile(mf); wErr != nil {
			err = errors.Join(err, wErr)
		} else {
			logger.Info(fmt.Sprintf("Metrics written to %s", mf))
		}
	}

	return err
}
