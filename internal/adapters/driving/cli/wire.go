package cli

import (
	"fmt"

	"github.com/aa-dank/file-code-tagger/internal/adapters/driven/embedding/ollama"
	"github.com/aa-dank/file-code-tagger/internal/adapters/driven/storage/sqlite"
	"github.com/aa-dank/file-code-tagger/internal/config"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driving"
	"github.com/aa-dank/file-code-tagger/internal/core/services"
	"github.com/aa-dank/file-code-tagger/internal/extractors"
	"github.com/aa-dank/file-code-tagger/internal/extractors/email"
	"github.com/aa-dank/file-code-tagger/internal/extractors/image"
	"github.com/aa-dank/file-code-tagger/internal/extractors/pdf"
	"github.com/aa-dank/file-code-tagger/internal/extractors/plaintext"
	"github.com/aa-dank/file-code-tagger/internal/extractors/presentation"
	"github.com/aa-dank/file-code-tagger/internal/extractors/spreadsheet"
	"github.com/aa-dank/file-code-tagger/internal/extractors/tika"
	"github.com/aa-dank/file-code-tagger/internal/extractors/web"
	"github.com/aa-dank/file-code-tagger/internal/extractors/word"
	"github.com/aa-dank/file-code-tagger/internal/logger"
)

// Services used by the commands. Tests inject fakes; production wiring
// happens in initServices.
var (
	pipelineService driving.Pipeline
	searchService   driving.Searcher
	metadataStore   *sqlite.Store
	ocrVerify       func() error

	// tesseractOverride replaces the configured OCR binary for this run.
	tesseractOverride string
)

// initServices builds the production service graph from configuration.
// Safe to call more than once; already-wired services are kept.
func initServices() error {
	if pipelineService != nil && searchService != nil {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.Database.DataDir)
	if err != nil {
		return fmt.Errorf("opening catalogue store: %w", err)
	}
	metadataStore = store

	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Timeout:    cfg.EmbeddingTimeout(),
		Dimensions: cfg.Embedding.Dimensions,
	})

	registry, verify, err := buildRegistry(cfg)
	if err != nil {
		store.Close()
		return err
	}
	ocrVerify = verify

	exclusion := services.NewExclusionPolicy(store.ExclusionStore())
	labeler := services.NewLabeler(store.TagStore(), store.LabelStore())

	pipelineService = services.NewBatchPipeline(
		store.FileStore(),
		store.TagStore(),
		store.ContentStore(),
		embedder,
		registry,
		exclusion,
		labeler,
		services.SubstringTagMatcher{},
	)
	searchService = services.NewSearchService(store.ContentStore(), embedder)

	return nil
}

// buildRegistry assembles the extractor registry from configuration.
// Returns the OCR verify hook alongside so batch commands can check for
// the tesseract binary up front.
func buildRegistry(cfg config.Config) (*extractors.Registry, func() error, error) {
	var fallback driven.Extractor
	if cfg.Tika.Enabled {
		fallback = tika.New(tika.Config{
			ServerURL:         cfg.Tika.ServerURL,
			Timeout:           cfg.TikaTimeout(),
			RequestsPerSecond: cfg.Tika.RequestsPerSecond,
		})
	}
	registry := extractors.NewRegistry(fallback)

	tesseractCmd := cfg.Pipeline.TesseractCmd
	if tesseractOverride != "" {
		tesseractCmd = tesseractOverride
	}
	ocr := image.New(tesseractCmd)

	for _, e := range []driven.Extractor{
		plaintext.New(),
		pdf.New(),
		ocr,
		word.New(),
		spreadsheet.New(),
		presentation.New(),
		web.New(),
		email.New(),
	} {
		if err := registry.Register(e); err != nil {
			return nil, nil, fmt.Errorf("building extractor registry: %w", err)
		}
	}

	return registry, ocr.Verify, nil
}

// verifyOCR warns when the OCR binary is missing. Image files will fail
// extraction individually; the batch itself still runs.
func verifyOCR() {
	if ocrVerify == nil {
		return
	}
	if err := ocrVerify(); err != nil {
		logger.Warn("OCR unavailable, image files will fail extraction: %v", err)
	}
}

// closeServices releases wired resources.
func closeServices() {
	if metadataStore != nil {
		metadataStore.Close()
		metadataStore = nil
	}
	pipelineService = nil
	searchService = nil
	ocrVerify = nil
}
