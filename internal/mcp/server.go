// Package mcp exposes the converter over the Model Context Protocol, so
// agent tooling can drive conversions and inspect shipping documents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/shipdocs/shipdoc/internal/config"
	"github.com/shipdocs/shipdoc/internal/converter"
	"github.com/shipdocs/shipdoc/internal/logger"
	"github.com/shipdocs/shipdoc/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	converter  *converter.Service
	mcpServer  *server.MCPServer
	log        zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, converterService *converter.Service) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if converterService == nil {
		return nil, fmt.Errorf("converterService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		converter:  converterService,
		mcpServer:  mcpServer,
		log:        logger.WithComponent("mcp"),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	convertTool := mcp.NewTool(
		"convert_documents",
		mcp.WithDescription("Convert invoice and packing list PDFs into a single Excel workbook"),
		mcp.WithString("invoice_path",
			mcp.Description("Full path to the commercial invoice PDF (*CI.pdf)"),
		),
		mcp.WithString("packing_list_path",
			mcp.Description("Full path to the packing list PDF (*PL.pdf)"),
		),
		mcp.WithString("directory",
			mcp.Description("Directory to scan for *CI.pdf and *PL.pdf files when no explicit paths are given"),
		),
		mcp.WithString("output_path",
			mcp.Description("Path of the workbook to write (derived from the input name if empty)"),
		),
		mcp.WithBoolean("strict",
			mcp.Description("Also run a structural PDF validation before parsing"),
		),
	)
	s.mcpServer.AddTool(convertTool, s.handleConvertDocuments)

	parseInvoiceTool := mcp.NewTool(
		"parse_invoice",
		mcp.WithDescription("Extract the line items of a commercial invoice PDF as JSON"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the invoice PDF"),
		),
	)
	s.mcpServer.AddTool(parseInvoiceTool, s.handleParseInvoice)

	parsePackingListTool := mcp.NewTool(
		"parse_packing_list",
		mcp.WithDescription("Extract the line items of a packing list PDF as JSON, grouped by EAN and batch"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the packing list PDF"),
		),
	)
	s.mcpServer.AddTool(parsePackingListTool, s.handleParsePackingList)

	parseDocumentTool := mcp.NewTool(
		"parse_document",
		mcp.WithDescription("Detect whether a PDF is an invoice or a packing list and extract its line items as JSON"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(parseDocumentTool, s.handleParseDocument)

	searchDirectoryTool := mcp.NewTool(
		"search_directory",
		mcp.WithDescription("Find convertible invoice and packing list PDFs in a directory"),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
	)
	s.mcpServer.AddTool(searchDirectoryTool, s.handleSearchDirectory)

	converterInfoTool := mcp.NewTool(
		"converter_info",
		mcp.WithDescription("Get converter information, available tools and usage guidance"),
	)
	s.mcpServer.AddTool(converterInfoTool, s.handleConverterInfo)
}

// Handler functions
func (s *Server) handleConvertDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := converter.ConvertRequest{
		InvoicePath:     stringArg(args, "invoice_path"),
		PackingListPath: stringArg(args, "packing_list_path"),
		Directory:       stringArg(args, "directory"),
		OutputPath:      stringArg(args, "output_path"),
		Strict:          boolArg(args, "strict"),
	}
	if req.Directory == "" {
		req.Directory = s.config.Directory
	}

	result, err := s.converter.Convert(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Conversion finished: %s\n", result.OutputPath)
	responseText += fmt.Sprintf("Job ID: %s\n", result.JobID)
	responseText += fmt.Sprintf("Invoices: %d (%d line items)\n", result.InvoiceCount, result.InvoiceLineCount)
	responseText += fmt.Sprintf("Packing list lines: %d\n", result.PackingLineCount)
	responseText += fmt.Sprintf("Elapsed: %d ms\n", result.ElapsedMs)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleParseInvoice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lines, err := s.converter.ParseInvoice(ctx, path, s.config.Strict)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Extracted %d invoice line(s) from %s\n\n%s\n", len(lines), path, payload)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleParsePackingList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lines, err := s.converter.ParsePackingList(ctx, path, s.config.Strict)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Extracted %d packing list line(s) from %s\n\n%s\n", len(lines), path, payload)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleParseDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.converter.ParseDocument(ctx, path, s.config.Strict)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	count := len(result.InvoiceLines) + len(result.PackingLines)
	responseText := fmt.Sprintf("Detected %s with %d line(s) in %s\n\n%s\n",
		result.DocumentType, count, path, payload)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := s.config.Directory // default
	if dir := stringArg(args, "directory"); dir != "" {
		directory = dir
	}

	result, err := s.pdfService.DiscoverInputs(pdf.DiscoverInputsRequest{Directory: directory})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(result.Invoices) == 0 && len(result.PackingLists) == 0 {
		return mcp.NewToolResultText(
			fmt.Sprintf("No convertible PDF files found in directory: %s", result.Directory)), nil
	}

	return mcp.NewToolResultText(s.formatSearchDirectoryResult(result)), nil
}

func (s *Server) handleConverterInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s v%s - Shipping Document Converter\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Default directory: %s\n", s.config.Directory)
	text += fmt.Sprintf("Max file size: %d MB\n\n", s.config.MaxFileSize/(1024*1024))

	text += "Available tools:\n"
	text += "\n• convert_documents\n"
	text += "  Convert invoice (*CI.pdf) and packing list (*PL.pdf) files into one Excel workbook\n"
	text += "  with Invoice and Packing_List sheets plus aggregation tables.\n"
	text += "\n• parse_invoice\n"
	text += "  Extract the flattened line items of a commercial invoice PDF as JSON.\n"
	text += "\n• parse_packing_list\n"
	text += "  Extract the packing list line items as JSON, grouped by EAN and batch.\n"
	text += "\n• parse_document\n"
	text += "  Detect the document kind from the filename and first page, then extract its line items.\n"
	text += "\n• search_directory\n"
	text += "  Find convertible invoice and packing list PDFs in a directory.\n"
	text += "\n• converter_info\n"
	text += "  Show this information.\n"

	text += "\nTypical flow: search_directory to find the input pair, then convert_documents.\n"

	return mcp.NewToolResultText(text), nil
}

// Formatting methods
func (s *Server) formatSearchDirectoryResult(result *pdf.DiscoverInputsResult) string {
	text := fmt.Sprintf("Found %d invoice(s) and %d packing list(s) in directory: %s\n",
		len(result.Invoices), len(result.PackingLists), result.Directory)

	if len(result.Invoices) > 0 {
		text += "\nInvoices:\n"
		text += formatFileList(result.Invoices)
	}
	if len(result.PackingLists) > 0 {
		text += "\nPacking lists:\n"
		text += formatFileList(result.PackingLists)
	}

	return text
}

func formatFileList(files []pdf.FileInfo) string {
	text := ""
	for i, file := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
	}
	return text
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func boolArg(args map[string]any, key string) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return false
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server on stdin/stdout
func (s *Server) runStdioMode(_ context.Context) error {
	s.log.Info().Str("directory", s.config.Directory).Msg("starting MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE on the configured address
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	s.log.Info().Str("address", addr).Msg("starting MCP server in SSE mode")

	sseServer := server.NewSSEServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sseServer.Start(addr)
	}()

	select {
	case <-ctx.Done():
		if err := sseServer.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("failed to shut down SSE server: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve SSE: %w", err)
		}
		return nil
	}
}
