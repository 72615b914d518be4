// Package extractors hosts the text extraction capabilities and the
// registry that dispatches files to them by extension.
//
// Each format lives in its own subpackage (plaintext, pdf, image, word,
// spreadsheet, presentation, web, email) and implements driven.Extractor.
// The tika subpackage is the generic catch-all used when no specific
// capability claims an extension.
package extractors
