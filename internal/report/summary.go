// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/matt-FFFFFF/fanout/internal/launch"
	"github.com/spf13/afero"
)

const reportFileMode = 0o644

var (
	// ErrEncode is returned when the summary cannot be encoded.
	ErrEncode = errors.New("failed to encode run report")
	// ErrWrite is returned when the summary cannot be written.
	ErrWrite = errors.New("failed to write run report")
)

// Summary is the machine readable record of a run.
type Summary struct {
	RunID     string          `yaml:"run_id"`
	StartedAt time.Time       `yaml:"started_at"`
	Requested int             `yaml:"requested"`
	Launched  int             `yaml:"launched"`
	Dropped   []string        `yaml:"dropped,omitempty"`
	Succeeded int             `yaml:"succeeded"`
	Failed    int             `yaml:"failed"`
	Results   []CommandResult `yaml:"results"`
}

// CommandResult is the summary entry for one terminated command.
type CommandResult struct {
	Path            string  `yaml:"path"`
	Pid             int     `yaml:"pid"`
	Outcome         string  `yaml:"outcome"`
	ExitCode        int     `yaml:"exit_code"`
	Signal          string  `yaml:"signal,omitempty"`
	DurationSeconds float64 `yaml:"duration_seconds"`
}

// NewRunID returns a random identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// NewSummary starts a summary for a run of the given number of commands.
func NewSummary(runID string, requested int, at time.Time) *Summary {
	return &Summary{
		RunID:     runID,
		StartedAt: at.UTC(),
		Requested: requested,
		Results:   make([]CommandResult, 0, requested),
	}
}

// Add records a terminated command.
func (s *Summary) Add(r launch.Result) {
	cr := CommandResult{
		Path:            r.Path,
		Pid:             r.Handle.Pid(),
		Outcome:         r.Outcome.String(),
		ExitCode:        r.ExitCode,
		DurationSeconds: r.Duration.Seconds(),
	}

	if r.Signal != 0 {
		cr.Signal = r.Signal.String()
	}

	if r.Outcome == launch.Success {
		s.Succeeded++
	} else {
		s.Failed++
	}

	s.Results = append(s.Results, cr)
}

// Encode returns the summary as YAML, or as JSON when asJSON is set.
func (s *Summary) Encode(asJSON bool) ([]byte, error) {
	var opts []yaml.EncodeOption
	if asJSON {
		opts = append(opts, yaml.JSON())
	}

	b, err := yaml.MarshalWithOptions(s, opts...)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}

	return b, nil
}

// WriteFile writes the summary to name on fs. Names ending in .json get JSON, anything else YAML.
func (s *Summary) WriteFile(fs afero.Fs, name string) error {
	b, err := s.Encode(strings.EqualFold(filepath.Ext(name), ".json"))
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, name, b, reportFileMode); err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}
