package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/studyforge/studyforge/internal/models"
)

// extractPDFText extracts text from PDF bytes using pdfcpu. The bytes are
// staged through a temp file because pdfcpu's extraction API is file-based.
func (s *Service) extractPDFText(ctx context.Context, pdfContent []byte) (string, error) {
	staged, err := os.CreateTemp(s.tempDir, "extract_*.pdf")
	if err != nil {
		return "", &models.ExtractionError{Reason: "failed to stage temp PDF file", Err: err}
	}
	tempFile := staged.Name()
	defer os.Remove(tempFile)
	if _, err := staged.Write(pdfContent); err != nil {
		staged.Close()
		return "", &models.ExtractionError{Reason: "failed to stage temp PDF file", Err: err}
	}
	if err := staged.Close(); err != nil {
		return "", &models.ExtractionError{Reason: "failed to stage temp PDF file", Err: err}
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", &models.ExtractionError{Reason: "failed to read PDF", Err: err}
	}
	pageCount := pdfCtx.PageCount

	// Each call gets its own pages dir; extractions run concurrently
	outDir, err := os.MkdirTemp(s.tempDir, "pages_")
	if err != nil {
		return "", &models.ExtractionError{Reason: "failed to create pages dir", Err: err}
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", &models.ExtractionError{Reason: "failed to extract PDF content", Err: err}
	}

	// pdfcpu writes one content file per page; reassemble in page order
	pageTexts := make(map[int]string)
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		name := file.Name()
		if idx := strings.Index(name, "Content_page_"); idx >= 0 {
			if _, err := fmt.Sscanf(name[idx:], "Content_page_%d", &pageNum); err == nil {
				pageTexts[pageNum] = string(content)
			}
		} else if _, err := fmt.Sscanf(name, "page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	var fullText strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text, ok := pageTexts[pageNum]
		if !ok || text == "" {
			continue
		}
		if fullText.Len() > 0 {
			fullText.WriteString("\n\n")
		}
		fullText.WriteString(text)
	}

	if fullText.Len() == 0 {
		return "", &models.ExtractionError{Reason: fmt.Sprintf("no extractable text in %d-page PDF", pageCount)}
	}

	s.logger.Debug().
		Int("page_count", pageCount).
		Int("text_len", fullText.Len()).
		Msg("Extracted PDF text")

	return fullText.String(), nil
}
