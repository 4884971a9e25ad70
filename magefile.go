//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "transcheck"

// Default target to run when none is specified
var Default = Build

// Build compiles the transcheck binary into ./bin
func Build() error {
	if err := os.MkdirAll("bin", 0755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join("bin", binary), "./cmd/transcheck")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs all unit tests with the race detector
func Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install builds and copies the binary to $GOPATH/bin
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	dest := filepath.Join(gopath, "bin", binary)
	fmt.Println("Installing to", dest)
	return sh.Copy(dest, filepath.Join("bin", binary))
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("bin")
}
