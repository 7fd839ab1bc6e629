// Package larder holds module-wide constants.
package larder

// Version is the released version of the larder module and CLI.
const Version = "0.3.0"
