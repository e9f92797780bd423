package pdf

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// PageLines holds the reconstructed text lines of one PDF page
type PageLines struct {
	Number int      `json:"number"`
	Lines  []string `json:"lines"`
}

// Request Types

// ReadLinesRequest represents a request to read a PDF file as text lines
type ReadLinesRequest struct {
	Path string `json:"path"`
}

// ValidateFileRequest represents a request to validate a PDF file
type ValidateFileRequest struct {
	Path   string `json:"path"`
	Strict bool   `json:"strict"` // also run a pdfcpu structural validation
}

// DiscoverInputsRequest represents a request to find CI/PL PDFs in a directory
type DiscoverInputsRequest struct {
	Directory string `json:"directory"`
}

// Response Types

// ReadLinesResult represents the result of a PDF line-extraction operation
type ReadLinesResult struct {
	Path      string      `json:"path"`
	Size      int64       `json:"size"`
	PageCount int         `json:"page_count"`
	Pages     []PageLines `json:"pages"`
}

// ValidateFileResult represents the result of a PDF validation operation
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// DiscoverInputsResult represents the CI/PL PDF files found in a directory
type DiscoverInputsResult struct {
	Directory    string     `json:"directory"`
	Invoices     []FileInfo `json:"invoices"`
	PackingLists []FileInfo `json:"packing_lists"`
}
