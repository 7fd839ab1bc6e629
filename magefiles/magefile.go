//go:build mage

// Package main provides build targets for the larder project using Mage.
//
// Usage:
//
//	mage build          Compile larder binary to bin/
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Run all tests and write coverage.out
//	mage test:pkg PKG   Run the tests of one package
//	mage lint           Run go vet and golangci-lint
//	mage dev            Build, seed the default store, and serve the API
//	mage clean          Remove build artifacts
//	mage install        Install larder to GOPATH/bin
//	mage stats          Print Go LOC and documentation word counts
package main

const (
	binGo      = "go"
	binaryName = "larder"
	binaryDir  = "bin"
	cmdDir     = "./cmd/larder"
	coverFile  = "coverage.out"
)
