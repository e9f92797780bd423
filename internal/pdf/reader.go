package pdf

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// rowTolerance is the vertical distance (in PDF points) within which two
// text runs are considered to be on the same line.
const rowTolerance = 2.0

// Reader extracts text lines from PDF files
type Reader struct {
	maxFileSize int64
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
	}
}

// ReadLines extracts the text of a PDF file page by page, reconstructing
// reading order from the positioned text runs: runs are grouped into rows by
// Y coordinate and each row is sorted by X before being joined into a line.
func (r *Reader) ReadLines(req ReadLinesRequest) (*ReadLinesResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validatePDFFile(req.Path, fileInfo); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	result := &ReadLinesResult{
		Path:      req.Path,
		Size:      fileInfo.Size(),
		PageCount: pdfReader.NumPage(),
	}

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		lines := r.extractPageLines(pdfReader, pageNum)
		result.Pages = append(result.Pages, PageLines{Number: pageNum, Lines: lines})
	}

	return result, nil
}

// validatePDFFile performs basic validation on a PDF file
func (r *Reader) validatePDFFile(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() > r.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}

	return nil
}

// extractPageLines reconstructs the text lines of a single page
func (r *Reader) extractPageLines(pdfReader *pdf.Reader, pageNum int) (lines []string) {
	defer func() {
		// The underlying library can panic on malformed content streams;
		// treat such pages as empty rather than failing the whole document.
		if recover() != nil {
			lines = nil
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return nil
	}

	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	for _, row := range groupTextByRow(content.Text, rowTolerance) {
		line := joinRow(row)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// groupTextByRow groups positioned text runs into rows by Y coordinate.
// Rows are returned top to bottom (PDF Y grows upward).
func groupTextByRow(runs []pdf.Text, tolerance float64) [][]pdf.Text {
	if len(runs) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var rows [][]pdf.Text
	currentRow := []pdf.Text{sorted[0]}
	currentY := sorted[0].Y

	for i := 1; i < len(sorted); i++ {
		if currentY-sorted[i].Y <= tolerance {
			currentRow = append(currentRow, sorted[i])
		} else {
			rows = append(rows, currentRow)
			currentRow = []pdf.Text{sorted[i]}
			currentY = sorted[i].Y
		}
	}
	rows = append(rows, currentRow)

	return rows
}

// joinRow orders the runs of one row by X and joins them into a single line.
// Adjacent runs are concatenated directly; a gap wider than a third of the
// font size becomes a space, so words keep their separation without
// inventing spaces inside a word that was split into individual glyphs.
func joinRow(row []pdf.Text) string {
	sort.SliceStable(row, func(i, j int) bool {
		return row[i].X < row[j].X
	})

	var builder strings.Builder
	var prevEnd float64

	for i, run := range row {
		text := run.S
		if text == "" {
			continue
		}
		if i > 0 {
			gap := run.X - prevEnd
			threshold := run.FontSize / 3
			if threshold <= 0 {
				threshold = 1.0
			}
			if gap > threshold {
				builder.WriteString(" ")
			}
		}
		builder.WriteString(text)
		prevEnd = run.X + run.W
	}

	return strings.TrimSpace(builder.String())
}
