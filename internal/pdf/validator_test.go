package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidator_ValidateFile(t *testing.T) {
	validator := NewValidator(1024 * 1024) // 1MB limit

	tests := []struct {
		name        string
		req         ValidateFileRequest
		expectValid bool
	}{
		{
			name:        "empty path",
			req:         ValidateFileRequest{Path: ""},
			expectValid: false,
		},
		{
			name:        "non-existent file",
			req:         ValidateFileRequest{Path: "/non/existent/file.pdf"},
			expectValid: false,
		},
		{
			name:        "non-existent file strict",
			req:         ValidateFileRequest{Path: "/non/existent/file.pdf", Strict: true},
			expectValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result == nil {
				t.Fatalf("result should not be nil")
			}

			if result.Valid != tt.expectValid {
				t.Errorf("expected Valid=%v but got %v", tt.expectValid, result.Valid)
			}

			if result.Path != tt.req.Path {
				t.Errorf("expected Path=%s but got %s", tt.req.Path, result.Path)
			}

			if !tt.expectValid && result.Message == "" {
				t.Errorf("expected validation message for invalid file")
			}
		})
	}
}

func TestValidator_ValidateFileInfo(t *testing.T) {
	validator := NewValidator(100) // 100 byte limit

	tempDir := t.TempDir()

	smallFile := filepath.Join(tempDir, "small.pdf")
	if err := os.WriteFile(smallFile, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	bigFile := filepath.Join(tempDir, "big.pdf")
	if err := os.WriteFile(bigFile, make([]byte, 200), 0o600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	emptyFile := filepath.Join(tempDir, "empty.pdf")
	if err := os.WriteFile(emptyFile, nil, 0o600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	notPDF := filepath.Join(tempDir, "notes.txt")
	if err := os.WriteFile(notPDF, []byte("text"), 0o600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid small pdf", path: smallFile, wantErr: false},
		{name: "too large", path: bigFile, wantErr: true},
		{name: "empty file", path: emptyFile, wantErr: true},
		{name: "wrong extension", path: notPDF, wantErr: true},
		{name: "directory", path: tempDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := os.Stat(tt.path)
			if err != nil {
				t.Fatalf("stat failed: %v", err)
			}

			err = validator.ValidateFileInfo(tt.path, info)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFileInfo() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidator_IsValidPDF(t *testing.T) {
	validator := NewValidator(1024 * 1024)

	if validator.IsValidPDF("/non/existent/file.pdf") {
		t.Error("IsValidPDF should return false for non-existent file")
	}

	if validator.IsValidPDF("") {
		t.Error("IsValidPDF should return false for empty path")
	}
}
