// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commandfile

import "github.com/spf13/afero"

// FsFactory is a function that returns an afero filesystem.
// Local command files are read from it.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
