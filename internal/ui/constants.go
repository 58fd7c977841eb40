// Package ui provides shared UI constants and utilities.
package ui

// BorderHeight is the vertical space consumed by a standard panel border.
const BorderHeight = 2
