// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/fanout/internal/color"
	"github.com/matt-FFFFFF/fanout/internal/commandfile"
	"github.com/matt-FFFFFF/fanout/internal/launch"
	"github.com/matt-FFFFFF/fanout/internal/launch/launchtest"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type testEnv struct {
	sys    *launchtest.System
	fs     afero.Fs
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func setup(t *testing.T, sys *launchtest.System) *testEnv {
	t.Helper()

	env := &testEnv{
		sys:    sys,
		fs:     afero.NewMemMapFs(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}

	stubs := gostub.Stub(&SystemFactory, func() (launch.Starter, launch.Waiter, error) {
		return sys, sys, nil
	})
	stubs.Stub(&FsFactory, func() afero.Fs { return env.fs })
	stubs.Stub(&commandfile.FsFactory, func() afero.Fs { return env.fs })

	restoreColour := color.SetEnabled(false)

	t.Cleanup(func() {
		restoreColour()
		stubs.Reset()
	})

	return env
}

func (env *testEnv) run(args ...string) (int, error) {
	cmd := NewCommand()
	cmd.Writer = env.stdout
	cmd.ErrWriter = env.stderr
	cmd.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	err := cmd.Run(context.Background(), append([]string{"fanout"}, args...))
	if err == nil {
		return ExitOK, nil
	}

	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode(), err
	}

	return -1, err
}

func TestNoArguments(t *testing.T) {
	env := setup(t, &launchtest.System{})

	code, _ := env.run()
	assert.Equal(t, ExitUsage, code)
	assert.Equal(t, 0, env.sys.Calls())
	assert.Contains(t, env.stdout.String(), "Error: no arguments added.")
	assert.Contains(t, env.stdout.String(), "Usage: fanout <commandPath1>")
}

func TestAllLaunched(t *testing.T) {
	env := setup(t, &launchtest.System{
		Statuses: map[string]launchtest.Status{"/bin/false": launchtest.Exited(1)},
	})

	code, err := env.run("/bin/true", "/bin/false")
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"/bin/true", "/bin/false"}, env.sys.Started())
	assert.Contains(t, env.stdout.String(), "✓ Command /bin/true has completed successfully")
	assert.Contains(t, env.stdout.String(), "✗ Command /bin/false has not completed successfully (exit code: 1)")
	assert.Contains(t, env.stdout.String(), "All done, bye-bye!")
}

func TestPartialLaunchExitsZero(t *testing.T) {
	env := setup(t, &launchtest.System{FailAt: 3})

	code, err := env.run("/a", "/b", "/c", "/d")
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, 2, env.sys.Reaped())
	assert.Contains(t, env.stdout.String(), "Failed to launch the remaining 2 commands.")
}

func TestNothingLaunched(t *testing.T) {
	env := setup(t, &launchtest.System{FailAt: 1})

	code, _ := env.run("/a", "/b")
	assert.Equal(t, ExitNothingStarted, code)
	assert.Equal(t, 0, env.sys.Reaped())
	assert.Contains(t, env.stdout.String(), "Failed to create any child process")
	assert.NotContains(t, env.stdout.String(), "All done")
}

func TestCommandFiles(t *testing.T) {
	env := setup(t, &launchtest.System{})
	require.NoError(t, afero.WriteFile(env.fs, "/cfg/cmds.yaml", []byte("commands:\n  - /from/yaml\n"), 0o644))
	require.NoError(t, afero.WriteFile(env.fs, "/cfg/cmds.hcl", []byte("command \"x\" {\n  path = \"/from/hcl\"\n}\n"), 0o644))

	code, err := env.run("-f", "/cfg/cmds.yaml", "--file", "/cfg/cmds.hcl", "/positional")
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"/positional", "/from/yaml", "/from/hcl"}, env.sys.Started())
}

func TestCommandFileError(t *testing.T) {
	env := setup(t, &launchtest.System{})
	require.NoError(t, afero.WriteFile(env.fs, "/cfg/bad.yaml", []byte("commands: [\"\"]\n"), 0o644))

	code, err := env.run("-f", "/cfg/bad.yaml", "/bin/true")
	assert.Equal(t, ExitOutputError, code)
	assert.ErrorContains(t, err, commandfile.ErrInvalid.Error())
	assert.Equal(t, 0, env.sys.Calls())
}

func TestReportAndMetricsFiles(t *testing.T) {
	env := setup(t, &launchtest.System{})
	metricsPath := filepath.Join(t.TempDir(), "fanout.prom")

	code, err := env.run("-o", "/out/report.json", "--metrics-file", metricsPath, "/bin/true", "/bin/true")
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)

	b, err := afero.ReadFile(env.fs, "/out/report.json")
	require.NoError(t, err)

	var rep map[string]any
	require.NoError(t, json.Unmarshal(b, &rep))
	assert.EqualValues(t, 2, rep["launched"])
	assert.EqualValues(t, 2, rep["succeeded"])

	m, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(m), `fanout_children_completed_total{outcome="success"} 2`)
	assert.Contains(t, string(m), "fanout_commands_requested 2")
}

func TestReportWrittenWhenNothingLaunched(t *testing.T) {
	env := setup(t, &launchtest.System{FailAt: 1})

	code, _ := env.run("-o", "/out/report.yaml", "/a")
	assert.Equal(t, ExitNothingStarted, code)

	ok, err := afero.Exists(env.fs, "/out/report.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReportWriteFailure(t *testing.T) {
	env := setup(t, &launchtest.System{})
	env.fs = afero.NewReadOnlyFs(afero.NewMemMapFs())

	code, err := env.run("-o", "/out/report.yaml", "/bin/true")
	assert.Equal(t, ExitOutputError, code)
	assert.Error(t, err)
	assert.Contains(t, env.stdout.String(), "All done, bye-bye!")
}

func TestSystemFactoryError(t *testing.T) {
	env := setup(t, &launchtest.System{})

	stubs := gostub.Stub(&SystemFactory, func() (launch.Starter, launch.Waiter, error) {
		return nil, nil, launch.ErrCouldNotStartProcess
	})
	defer stubs.Reset()

	code, _ := env.run("/bin/true")
	assert.Equal(t, ExitNothingStarted, code)
}
