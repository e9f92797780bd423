package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/shipdocs/shipdoc/internal/config"
)

const (
	testVersion = "1.2.3"
	devVersion  = "dev"
)

func TestPrintVersion(t *testing.T) {
	// Save original stdout
	originalStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	oldVersion := version
	oldBuildTime := buildTime
	oldGitCommit := gitCommit

	version = testVersion
	buildTime = "2023-12-01_10:30:00"
	gitCommit = "abc123"

	defer func() {
		version = oldVersion
		buildTime = oldBuildTime
		gitCommit = oldGitCommit
		os.Stdout = originalStdout
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		printVersion()
		w.Close()
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	<-done

	output := buf.String()
	for _, want := range []string{
		"shipdoc",
		"Version: " + testVersion,
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{
			name: "convert mode",
			cfg:  &config.Config{Mode: "convert", LogLevel: "info"},
		},
		{
			name: "stdio mode silences logs",
			cfg:  &config.Config{Mode: "stdio", LogLevel: "info"},
		},
		{
			name: "stdio mode with debug keeps logs",
			cfg:  &config.Config{Mode: "stdio", LogLevel: "debug"},
		},
		{
			name: "server mode uses json",
			cfg:  &config.Config{Mode: "server", LogLevel: "warn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must not panic or exit for any valid mode/level combination
			setupLogging(tt.cfg)
		})
	}
}
