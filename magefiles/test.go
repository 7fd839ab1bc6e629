//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, race, cover, pkg).
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Race runs all tests with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Cover runs all tests and prints per-function coverage.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverFile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverFile)
}

// Pkg runs the tests of one package, given as a path relative to the module
// root (for example internal/sqlite).
func (Test) Pkg(pkg string) error {
	pkg = strings.TrimPrefix(strings.TrimSuffix(pkg, "/"), "./")
	if pkg == "" {
		return fmt.Errorf("package path required")
	}
	return sh.RunV(binGo, "test", "-v", "./"+pkg)
}
