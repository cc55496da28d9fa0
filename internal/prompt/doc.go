// SPDX-License-Identifier: MPL-2.0

// Package prompt is the question/answer boundary between the traversal
// engine and the person driving it. The engine emits a Prompt descriptor
// and receives exactly one answer before advancing; it never touches a
// terminal itself.
//
// Terminal renders prompts with charmbracelet/huh. Scripted replays canned
// answers and records what was asked, which is what the engine and driver
// tests run against.
package prompt
