// SPDX-License-Identifier: MPL-2.0

// Package testutil provides shared test helpers: a manually controlled
// FakeClock for time-dependent code and cleanup helpers with consistent
// error handling.
package testutil
