package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Search discovers shipping-document PDFs in a directory. Commercial
// invoices are named `*CI.pdf` and packing lists `*PL.pdf` by convention.
type Search struct {
	maxFileSize int64
	validator   *Validator
}

// NewSearch creates a new PDF search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// DiscoverInputs scans a directory (non-recursively) for CI and PL PDF files
func (s *Search) DiscoverInputs(req DiscoverInputsRequest) (*DiscoverInputsResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(req.Directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}

	entries, err := os.ReadDir(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := &DiscoverInputsResult{Directory: req.Directory}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		path := filepath.Join(req.Directory, name)

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			continue
		}

		fileInfo := FileInfo{
			Path:         path,
			Name:         name,
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format(time.RFC3339),
		}

		switch {
		case IsInvoiceFileName(name):
			result.Invoices = append(result.Invoices, fileInfo)
		case IsPackingListFileName(name):
			result.PackingLists = append(result.PackingLists, fileInfo)
		}
	}

	sortByName(result.Invoices)
	sortByName(result.PackingLists)

	return result, nil
}

// IsInvoiceFileName reports whether a filename follows the `*CI.pdf`
// convention. The CI marker is case-sensitive so names that merely end in
// those letters (davinci.pdf) are not picked up; the extension is not.
func IsInvoiceFileName(name string) bool {
	return hasKindSuffix(name, "CI")
}

// IsPackingListFileName reports whether a filename follows the `*PL.pdf` convention
func IsPackingListFileName(name string) bool {
	return hasKindSuffix(name, "PL")
}

func hasKindSuffix(name, kind string) bool {
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, ".pdf") {
		return false
	}
	return strings.HasSuffix(strings.TrimSuffix(name, ext), kind)
}

func sortByName(files []FileInfo) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
}
