// SPDX-License-Identifier: MPL-2.0

// Package store persists named scripts. The core only needs upsert-by-name
// and name-keyed lookup and removal; both backends implement exactly that.
//
// File keeps every script in one YAML document and writes it atomically
// (temp file, fsync, rename). It runs on an afero filesystem so tests use
// an in-memory one. Redis keeps scripts in a single hash and exists for
// shared registries; its tests run against miniredis.
package store
