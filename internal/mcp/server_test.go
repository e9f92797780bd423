package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/shipdocs/shipdoc/internal/config"
	"github.com/shipdocs/shipdoc/internal/converter"
	"github.com/shipdocs/shipdoc/internal/pdf"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Mode:        "stdio",
		Host:        "127.0.0.1",
		Port:        8080,
		Directory:   dir,
		Version:     "1.0.0",
		ServerName:  "test-server",
		LogLevel:    "info",
		MaxFileSize: 1024 * 1024,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	pdfService := pdf.NewService(cfg.MaxFileSize)
	converterService := converter.NewService(pdfService)

	server, err := NewServer(cfg, pdfService, converterService)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	cfg := testConfig(t.TempDir())
	pdfService := pdf.NewService(cfg.MaxFileSize)
	converterService := converter.NewService(pdfService)

	server, err := NewServer(cfg, pdfService, converterService)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server == nil {
		t.Fatal("server should not be nil")
	}
	if server.config != cfg {
		t.Error("server config not set correctly")
	}
	if server.pdfService != pdfService {
		t.Error("server pdfService not set correctly")
	}
	if server.mcpServer == nil {
		t.Error("mcpServer should be initialized")
	}
}

func TestNewServer_NilServices(t *testing.T) {
	cfg := testConfig(t.TempDir())
	pdfService := pdf.NewService(cfg.MaxFileSize)
	converterService := converter.NewService(pdfService)

	if _, err := NewServer(cfg, nil, converterService); err == nil {
		t.Error("expected error for nil pdf service")
	}
	if _, err := NewServer(cfg, pdfService, nil); err == nil {
		t.Error("expected error for nil converter service")
	}
}

func TestServer_HandleConvertDocuments_NoInput(t *testing.T) {
	server := newTestServer(t, testConfig(t.TempDir()))

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{},
		},
	}

	result, err := server.handleConvertDocuments(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result == nil {
		t.Fatal("result should not be nil")
	}
	if !result.IsError {
		t.Error("expected an error result for an empty directory")
	}
}

func TestServer_HandleParseInvoice_MissingPath(t *testing.T) {
	server := newTestServer(t, testConfig(t.TempDir()))

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{},
		},
	}

	result, err := server.handleParseInvoice(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result when path is missing")
	}
}

func TestServer_HandleParseInvoice_InvalidFile(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "broken CI.pdf")
	if err := os.WriteFile(testFile, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	server := newTestServer(t, testConfig(tempDir))

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"path": testFile,
			},
		},
	}

	result, err := server.handleParseInvoice(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result for a broken PDF")
	}
}

func TestServer_HandleParseDocument_MissingPath(t *testing.T) {
	server := newTestServer(t, testConfig(t.TempDir()))

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{},
		},
	}

	result, err := server.handleParseDocument(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result when path is missing")
	}
}

func TestServer_HandleParseDocument_InvalidFile(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "document.pdf")
	if err := os.WriteFile(testFile, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	server := newTestServer(t, testConfig(tempDir))

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"path": testFile,
			},
		},
	}

	result, err := server.handleParseDocument(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result for a broken PDF")
	}
}

func TestServer_HandleSearchDirectory(t *testing.T) {
	tempDir := t.TempDir()
	for _, filename := range []string{"Shipment 42 CI.pdf", "Shipment 42 PL.pdf", "report.txt"} {
		if err := os.WriteFile(filepath.Join(tempDir, filename), make([]byte, 1024), 0o644); err != nil {
			t.Fatalf("failed to create test file %s: %v", filename, err)
		}
	}

	server := newTestServer(t, testConfig(tempDir))

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"directory": tempDir,
			},
		},
	}

	result, err := server.handleSearchDirectory(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	resultText := extractTextFromResult(result)
	if !strings.Contains(resultText, "Found 1 invoice(s) and 1 packing list(s)") {
		t.Errorf("unexpected result text: %s", resultText)
	}
	if !strings.Contains(resultText, "Shipment 42 CI.pdf") {
		t.Errorf("expected invoice file in result, got: %s", resultText)
	}
}

func TestServer_HandleSearchDirectory_Empty(t *testing.T) {
	tempDir := t.TempDir()
	server := newTestServer(t, testConfig(tempDir))

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{},
		},
	}

	result, err := server.handleSearchDirectory(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	resultText := extractTextFromResult(result)
	if !strings.Contains(resultText, "No convertible PDF files found") {
		t.Errorf("unexpected result text: %s", resultText)
	}
}

func TestServer_HandleConverterInfo(t *testing.T) {
	server := newTestServer(t, testConfig(t.TempDir()))

	result, err := server.handleConverterInfo(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	resultText := extractTextFromResult(result)
	for _, tool := range []string{
		"convert_documents", "parse_invoice", "parse_packing_list",
		"parse_document", "search_directory", "converter_info",
	} {
		if !strings.Contains(resultText, tool) {
			t.Errorf("expected tool %s in info text, got: %s", tool, resultText)
		}
	}
}

func TestStringArg(t *testing.T) {
	args := map[string]any{"s": "value", "n": 42}

	if got := stringArg(args, "s"); got != "value" {
		t.Errorf("stringArg returned %q", got)
	}
	if got := stringArg(args, "n"); got != "" {
		t.Errorf("stringArg on non-string returned %q", got)
	}
	if got := stringArg(args, "missing"); got != "" {
		t.Errorf("stringArg on missing key returned %q", got)
	}
}

func TestBoolArg(t *testing.T) {
	args := map[string]any{"b": true, "s": "true"}

	if !boolArg(args, "b") {
		t.Error("boolArg should return true")
	}
	if boolArg(args, "s") {
		t.Error("boolArg on non-bool should return false")
	}
	if boolArg(args, "missing") {
		t.Error("boolArg on missing key should return false")
	}
}

func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}
