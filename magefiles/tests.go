//go:build mage

package main

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	Gotestsum string
	LocalBin  = filepath.Join(os.Getenv("PWD"), "/bin")
)

func makeLocalBin() error {
	return os.MkdirAll(LocalBin, os.ModePerm)
}

// gotestsum downloads gotestsum locally if necessary
func gotestsum() error {
	mg.Deps(makeLocalBin)
	Gotestsum = filepath.Join(LocalBin, binaryWithExt("gotestsum"))
	if _, err := os.Stat(Gotestsum); os.IsNotExist(err) {
		cmd := exec.Command("go", "install", "gotest.tools/gotestsum@v1.8.2")
		cmd.Env = append(os.Environ(), "GOBIN="+LocalBin)
		return cmd.Run()
	}
	return nil
}

// Tests runs the unit tests of every package and writes coverage reports to test_reports/.
func Tests() error {
	mg.Deps(gotestsum)
	if err := os.MkdirAll("test_reports", os.ModePerm); err != nil {
		return err
	}
	if err := runtest("internal_coverage.xml", "internal.txt", "./internal/..."); err != nil {
		return err
	}
	return runtest("cmd_coverage.xml", "cmd.txt", "./cmd/...")
}

func runtest(coverageFileName, outputFileName string, directories ...string) error {
	args := []string{"--", "-v", "-count=1"}
	if coverageFileName != "" {
		args = append(args, "-coverprofile", filepath.Join("test_reports", coverageFileName))
	}
	args = append(args, directories...)

	file, err := os.Create(filepath.Join("test_reports", outputFileName))
	if err != nil {
		return err
	}
	defer file.Close()

	cmd := exec.Command(Gotestsum, args...)
	cmd.Stdout = io.MultiWriter(os.Stdout, file)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Bench builds streambench and runs the default scenarios with the reduced profile.
func Bench() error {
	return sh.RunWithV(map[string]string{"CI": "true"}, "go", "run", "./cmd/streambench", "run")
}

// BenchFull runs the default scenarios with the full profile followed by the comprehensive suite.
func BenchFull() error {
	if err := sh.RunV("go", "run", "./cmd/streambench", "run"); err != nil {
		return err
	}
	return sh.RunV("go", "run", "./cmd/streambench", "suite")
}
