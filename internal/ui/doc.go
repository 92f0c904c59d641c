// Package ui holds the lipgloss palette used for the CLI's status lines.
//
// Colors are dropped automatically when output is not a terminal.
package ui
