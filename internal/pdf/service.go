package pdf

// Service handles PDF file operations by orchestrating the reader,
// validator and search components
type Service struct {
	maxFileSize int64
	reader      *Reader
	validator   *Validator
	search      *Search
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64) *Service {
	return &Service{
		maxFileSize: maxFileSize,
		reader:      NewReader(maxFileSize),
		validator:   NewValidator(maxFileSize),
		search:      NewSearch(maxFileSize),
	}
}

// ReadLines extracts the text lines of a PDF file page by page
func (s *Service) ReadLines(req ReadLinesRequest) (*ReadLinesResult, error) {
	return s.reader.ReadLines(req)
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	return s.validator.ValidateFile(req)
}

// DiscoverInputs finds CI and PL PDF files in a directory
func (s *Service) DiscoverInputs(req DiscoverInputsRequest) (*DiscoverInputsResult, error) {
	return s.search.DiscoverInputs(req)
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
