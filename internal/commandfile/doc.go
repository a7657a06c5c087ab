// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commandfile loads lists of command paths from files.
//
// Two formats are understood, chosen by file extension. Files ending in
// `.hcl` contain one block per command:
//
//	command "build" {
//	  path = "/usr/local/bin/build"
//	}
//
// Anything else is YAML:
//
//	commands:
//	  - /usr/local/bin/build
//	  - /usr/local/bin/test
//
// Sources that are not files on the local filesystem are fetched with
// Hashicorp's go-getter, so git, http(s), s3 and the other go-getter
// schemes work.
package commandfile
