// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package controller runs one fan-out: it launches every command, waits for all of
// them and reports each outcome as it happens.
package controller

import (
	"context"
	"errors"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
	"github.com/matt-FFFFFF/fanout/internal/launch"
	"github.com/matt-FFFFFF/fanout/internal/metrics"
	"github.com/matt-FFFFFF/fanout/internal/report"
)

var (
	// ErrNoCommands is returned when Run is called without any command paths.
	ErrNoCommands = errors.New("no commands supplied")
	// ErrNothingLaunched is returned when not a single child process could be created.
	ErrNothingLaunched = errors.New("failed to create any child process")
	// ErrReap is returned when waiting for the children fails.
	ErrReap = errors.New("failed to reap child processes")
)

// now is replaced in tests.
var now = time.Now

// Controller wires the launch pipeline to its outputs.
type Controller struct {
	Starter launch.Starter
	Waiter  launch.Waiter
	Printer *report.Printer
	Metrics *metrics.Collector // optional
	RunID   string             // generated when empty
}

// Run launches paths, reaps every launched child and returns the run summary.
//
// A partial launch is not an error: the commands that could not be launched are
// listed in Summary.Dropped and a warning is printed. The summary is returned
// alongside ErrNothingLaunched and ErrReap so the caller can still write it out.
func (c *Controller) Run(ctx context.Context, paths []string) (*report.Summary, error) {
	p := c.Printer
	if p == nil {
		p = report.NewPrinter(nil)
	}

	if len(paths) == 0 {
		p.Usage()
		return nil, ErrNoCommands
	}

	runID := c.RunID
	if runID == "" {
		runID = report.NewRunID()
	}

	logger := ctxlog.Logger(ctx).With("run_id", runID)
	ctx = ctxlog.New(ctx, logger)

	start := now()
	sum := report.NewSummary(runID, len(paths), start)

	if c.Metrics != nil {
		c.Metrics.SetRequested(len(paths))
		defer func() { c.Metrics.SetRunDuration(now().Sub(start)) }()
	}

	reg := launch.NewRegistry(paths)
	count := launch.Spawn(ctx, reg, c.Starter)

	sum.Launched = count
	for i := count; i < len(reg); i++ {
		sum.Dropped = append(sum.Dropped, reg[i].Path())
	}

	if c.Metrics != nil {
		c.Metrics.SetLaunched(count)
	}

	logger.Info("launch complete", "requested", len(paths), "launched", count)

	if count == 0 {
		p.NothingLaunched()
		return sum, ErrNothingLaunched
	}

	if count < len(paths) {
		p.Dropped(len(paths) - count)
	}

	idx := launch.BuildIndex(reg, count)

	_, err := launch.Reap(ctx, idx, c.Waiter, func(r launch.Result) {
		p.Result(r)
		sum.Add(r)

		if c.Metrics != nil {
			c.Metrics.ObserveResult(r)
		}
	})
	if err != nil {
		logger.Error("waiting for children failed", "error", err)
		return sum, errors.Join(ErrReap, err)
	}

	logger.Info("run complete", "succeeded", sum.Succeeded, "failed", sum.Failed)
	p.Done()

	return sum, nil
}
