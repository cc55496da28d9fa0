// SPDX-License-Identifier: MPL-2.0

// Package remote shares the script registry over SSH using the Wish library.
//
// The server authenticates clients with a generated token presented as the
// SSH password. An exec session names a command as <script>.<command-key>
// and runs its directives with the session's streams attached; a session
// without a command receives a rendered listing of the saved scripts.
package remote
