// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commandfile

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
	"github.com/spf13/afero"
)

var (
	// ErrGetFile is returned when the command file cannot be read or fetched.
	ErrGetFile = errors.New("failed to get command file")
)

// Load reads the command file at src and returns its command paths in file order.
// A src that names a file on FsFactory() is read directly. Anything else is
// treated as a go-getter URL.
func Load(ctx context.Context, src string) ([]string, error) {
	if src == "" {
		return nil, fmt.Errorf("%w: empty source", ErrGetFile)
	}

	logger := ctxlog.Logger(ctx).With("source", src)

	b, err := readLocal(src)
	if err != nil {
		return nil, err
	}

	if b == nil {
		logger.Debug("command file not found locally, fetching with go-getter")

		if b, err = getURL(ctx, src); err != nil {
			return nil, err
		}
	}

	paths, err := Parse(src, b)
	if err != nil {
		return nil, err
	}

	logger.Debug("command file loaded", "commands", len(paths))

	return paths, nil
}

// LoadAll loads every source in order and concatenates their command paths.
func LoadAll(ctx context.Context, srcs []string) ([]string, error) {
	var paths []string

	for _, src := range srcs {
		p, err := Load(ctx, src)
		if err != nil {
			return nil, err
		}

		paths = append(paths, p...)
	}

	return paths, nil
}

// readLocal returns nil, nil when src is not a regular file on the local filesystem.
func readLocal(src string) ([]byte, error) {
	fs := FsFactory()

	fi, err := fs.Stat(src)
	if err != nil || fi.IsDir() {
		return nil, nil //nolint:nilerr
	}

	b, err := afero.ReadFile(fs, src)
	if err != nil {
		return nil, errors.Join(ErrGetFile, err)
	}

	return b, nil
}
