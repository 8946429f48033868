// Package pdf extracts chunks from PDF files.
package pdf

import (
	"fmt"
	"os"

	uniextractor "github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"go.uber.org/zap"

	"github.com/papershelf/papershelf/pkg/extract"
	"github.com/papershelf/papershelf/pkg/store"
)

// Extractor pulls paragraph chunks out of each page of a PDF. Pages
// that fail to parse are skipped so a damaged page does not sink the
// whole document.
type Extractor struct {
	minWords int
	logger   *zap.Logger
}

// Config holds PDF extractor settings.
type Config struct {
	// MinWords is the minimum paragraph length in words. Zero means
	// extract.DefaultMinWords.
	MinWords int
	Logger   *zap.Logger
}

func NewExtractor(cfg Config) *Extractor {
	minWords := cfg.MinWords
	if minWords <= 0 {
		minWords = extract.DefaultMinWords
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		minWords: minWords,
		logger:   logger,
	}
}

func (e *Extractor) Extract(path string) ([]store.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader, err := model.NewPdfReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading pdf %s: %w", path, err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("counting pages in %s: %w", path, err)
	}

	var chunks []store.Chunk
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page, err := reader.GetPage(pageNum)
		if err != nil {
			e.logger.Warn("skipping unreadable page",
				zap.String("path", path),
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		ex, err := uniextractor.New(page)
		if err != nil {
			e.logger.Warn("skipping page, extractor failed",
				zap.String("path", path),
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		text, err := ex.ExtractText()
		if err != nil {
			e.logger.Warn("skipping page, text extraction failed",
				zap.String("path", path),
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		chunks = append(chunks, extract.Paragraphs(text, pageNum, e.minWords)...)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("no usable paragraphs in %s", path)
	}
	return chunks, nil
}

var _ extract.Extractor = (*Extractor)(nil)
