// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the tableland project using Mage.
//
// Usage:
//
//	mage build       Compile tableland binary to bin/
//	mage test:all    Run all tests
//	mage test:unit   Run tests in short mode, skipping the simulated chain
//	mage test:race   Run all tests with the race detector
//	mage vet         Run go vet
//	mage lint        Run go vet and golangci-lint
//	mage serve       Build and run a local node on 127.0.0.1:8080
//	mage clean       Remove build artifacts
//	mage install     Install tableland to GOPATH/bin
//	mage stats       Print Go LOC and documentation word counts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "tableland"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tableland"
)

// Build compiles the tableland binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Serve builds the binary and runs an in-memory local node.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "serve", "--memory", "--log-level", "debug")
}
