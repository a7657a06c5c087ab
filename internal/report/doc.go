// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report prints the outcome of a run for the user and
// writes a machine readable summary of it.
package report
