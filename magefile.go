//go:build mage
// +build mage

package main

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	binDir  = "bin"
	appName = "wall-web"
)

var Default = Run

// Run starts the web server with go run.
func Run() error {
	fmt.Println("Running (go run) on :8080 ...")
	return sh.RunV("go", "run", "./cmd/web")
}

// Build compiles the server binary into bin/.
func Build() error {
	mg.Deps(Tidy)
	out := filepath.Join(binDir, appName)
	fmt.Println("Building", out, "...")
	return sh.RunV("go", "build", "-o", out, "./cmd/web")
}

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint if installed, otherwise go vet.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err == nil {
		return sh.RunV("golangci-lint", "run")
	}
	fmt.Println("golangci-lint not found, falling back to go vet")
	return sh.RunV("go", "vet", "./...")
}

// Tidy syncs go.mod/go.sum.
func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}

// Tables creates the MySQL schema (needs DB_DSN).
func Tables() error {
	return sh.RunV("go", "run", "./cmd/tools/createtable")
}
