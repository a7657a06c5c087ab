// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package launch tracks the child processes of a single run and correlates their
// termination back to the command that started them.
//
// A run goes through three steps:
//
//  1. NewRegistry records one command path per requested command.
//  2. Spawn starts them in order and stops at the first creation failure,
//     so only a prefix of the registry is ever launched.
//  3. BuildIndex sorts the launched prefix by handle, and Reap waits for any
//     child to terminate, looks its handle up with a binary search and emits a
//     classified Result.
//
// Termination events arrive in whatever order the children exit. The process
// primitives are hidden behind the Starter and Waiter interfaces; ProcessStarter
// and ChildWaiter bind them to the operating system.
package launch
