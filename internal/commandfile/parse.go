// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commandfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

const hclExt = ".hcl"

var (
	// ErrParse is returned when a command file is not valid YAML or HCL.
	ErrParse = errors.New("failed to parse command file")
	// ErrInvalid is returned when a command file parses but its commands are not valid.
	ErrInvalid = errors.New("invalid command file")
	// ErrNoCommands is returned when a command file contains no commands.
	ErrNoCommands = errors.New("command file contains no commands")
	// ErrEmptyPath is returned for a command with an empty path.
	ErrEmptyPath = errors.New("command path is empty")
	// ErrNulInPath is returned for a command path containing a NUL byte.
	ErrNulInPath = errors.New("command path contains a NUL byte")
	// ErrDuplicateName is returned when two HCL command blocks share a name.
	ErrDuplicateName = errors.New("duplicate command name")
)

type yamlFile struct {
	Commands []string `yaml:"commands"`
}

type hclFile struct {
	Commands []hclCommand `hcl:"command,block"`
}

type hclCommand struct {
	Name string `hcl:"name,label"`
	Path string `hcl:"path"`
}

// Parse decodes the command file content b. The format is chosen from the extension of name.
func Parse(name string, b []byte) ([]string, error) {
	var (
		paths []string
		err   error
	)

	if fileExt(name) == hclExt {
		paths, err = parseHCL(name, b)
	} else {
		paths, err = parseYAML(b)
	}

	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCommands, name)
	}

	return paths, nil
}

func parseYAML(b []byte) ([]string, error) {
	var f yamlFile
	if err := yaml.UnmarshalWithOptions(b, &f, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.Join(ErrParse, err)
	}

	var err error

	for i, p := range f.Commands {
		if vErr := validatePath(p); vErr != nil {
			err = multierror.Append(err, fmt.Errorf("commands[%d]: %w", i, vErr))
		}
	}

	if err != nil {
		return nil, errors.Join(ErrInvalid, err)
	}

	return f.Commands, nil
}

func parseHCL(name string, b []byte) ([]string, error) {
	// hclsimple picks the syntax from the extension, which must be lower case.
	base := stripQuery(name)
	fn := strings.TrimSuffix(base, filepath.Ext(base)) + hclExt

	var f hclFile
	if err := hclsimple.Decode(fn, b, nil, &f); err != nil {
		return nil, errors.Join(ErrParse, err)
	}

	var err error

	seen := make(map[string]struct{}, len(f.Commands))
	paths := make([]string, 0, len(f.Commands))

	for _, c := range f.Commands {
		if _, ok := seen[c.Name]; ok {
			err = multierror.Append(err, fmt.Errorf("command %q: %w", c.Name, ErrDuplicateName))
		}

		seen[c.Name] = struct{}{}

		if vErr := validatePath(c.Path); vErr != nil {
			err = multierror.Append(err, fmt.Errorf("command %q: %w", c.Name, vErr))
		}

		paths = append(paths, c.Path)
	}

	if err != nil {
		return nil, errors.Join(ErrInvalid, err)
	}

	return paths, nil
}

// stripQuery removes a go-getter query string such as ?ref=v1.0.0.
func stripQuery(name string) string {
	before, _, _ := strings.Cut(name, goGetterRefSeparator)
	return before
}

func fileExt(name string) string {
	return strings.ToLower(filepath.Ext(stripQuery(name)))
}

func validatePath(p string) error {
	switch {
	case p == "":
		return ErrEmptyPath
	case strings.ContainsRune(p, 0):
		return ErrNulInPath
	}

	return nil
}
