// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary(t *testing.T) *Summary {
	t.Helper()

	s := NewSummary(NewRunID(), 6, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.Launched = 4
	s.Dropped = []string{"/bin/x", "/bin/y"}

	for _, r := range sampleResults() {
		s.Add(r)
	}

	return s
}

func TestSummaryAdd(t *testing.T) {
	s := sampleSummary(t)

	_, err := uuid.Parse(s.RunID)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 3, s.Failed)
	require.Len(t, s.Results, 4)

	assert.Equal(t, CommandResult{
		Path:            "/usr/local/bin/sleeper",
		Pid:             104,
		Outcome:         "failure",
		ExitCode:        -1,
		Signal:          "killed",
		DurationSeconds: 1.5,
	}, s.Results[3])
	assert.Empty(t, s.Results[0].Signal)
}

func TestSummaryWriteFileYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := sampleSummary(t)

	require.NoError(t, s.WriteFile(fs, "/out/report.yaml"))

	b, err := afero.ReadFile(fs, "/out/report.yaml")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(b, &got))

	assert.Equal(t, s.RunID, got["run_id"])
	assert.EqualValues(t, 6, got["requested"])
	assert.EqualValues(t, 4, got["launched"])
	assert.Len(t, got["results"], 4)
	assert.Len(t, got["dropped"], 2)
}

func TestSummaryWriteFileJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := sampleSummary(t)
	s.Dropped = nil

	require.NoError(t, s.WriteFile(fs, "report.JSON"))

	b, err := afero.ReadFile(fs, "report.JSON")
	require.NoError(t, err)
	require.True(t, json.Valid(b), string(b))

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, s.RunID, got["run_id"])
	assert.NotContains(t, got, "dropped")
	assert.EqualValues(t, 3, got["failed"])
}

func TestSummaryWriteFileError(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	err := sampleSummary(t).WriteFile(fs, "report.yaml")
	assert.ErrorIs(t, err, ErrWrite)
}
