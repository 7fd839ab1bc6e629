// Package main provides the larder CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A .env in the working directory supplies LARDER_* variables; a missing
	// file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "larder: loading .env:", err)
	}

	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "larder:", err)
	}
	os.Exit(exitCode(err))
}
