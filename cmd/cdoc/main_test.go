package main

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMain_Subprocess runs main in a child test binary so that os.Exit can be observed.
func TestMain_Subprocess(t *testing.T) {
	if args := os.Getenv("CDOC_TEST_ARGS"); args != "" {
		os.Args = append([]string{"cdoc"}, strings.Fields(args)...)
		main()
		return
	}

	tests := []struct {
		name     string
		args     string
		wantExit int
	}{
		{name: "help command", args: "--help", wantExit: 0},
		{name: "invalid flag", args: "--invalid-flag", wantExit: 1},
		{name: "missing dump", args: "validate testdata-missing.yaml", wantExit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestMain_Subprocess$")
			cmd.Env = append(os.Environ(), "CDOC_TEST_ARGS="+tt.args)

			err := cmd.Run()
			if tt.wantExit == 0 {
				assert.NoError(t, err)
				return
			}

			var exitErr *exec.ExitError
			if assert.True(t, errors.As(err, &exitErr), "expected exit error, got %v", err) {
				assert.Equal(t, tt.wantExit, exitErr.ExitCode())
			}
		})
	}
}
