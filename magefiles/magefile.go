//go:build mage

// Package main provides build targets for the halfbaked project using Mage.
//
// Usage:
//
//	mage build      Compile halfbaked binary to bin/
//	mage test       Run all tests
//	mage cover      Run all tests with a coverage profile
//	mage golden     Regenerate the render golden files
//	mage lint       Run golangci-lint
//	mage vet        Run go vet
//	mage clean      Remove build artifacts
//	mage install    Install halfbaked to GOPATH/bin
//	mage stats      Print Go LOC as a JSON record
package main

import (
	"path/filepath"

	"github.com/magefile/mage/sh"
)

const (
	coverProfile = "coverage.out"
	renderPkg    = "./internal/render"
)

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Cover runs all tests and writes a coverage profile to bin/.
func Cover() error {
	profile := filepath.Join(binaryDir, coverProfile)
	if err := sh.RunV(binGo, "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func", profile)
}

// Golden rewrites the golden files under internal/render/testdata.
func Golden() error {
	return sh.RunV(binGo, "test", renderPkg, "-update")
}
