package scrapeapi

import (
	"context"
	"io"

	"github.com/Bahjat/udyam-scraper/internal/model"
)

// SchemaProvider defines the contract for anything that can produce form
// schemas from the registration page.
type SchemaProvider interface {
	Scrape(ctx context.Context) (*model.ScrapeDocument, error)
	ScrapeStep(ctx context.Context, step int) (*model.StepDocument, error)
	ScrapeHTML(body io.Reader, contentType, source string) (*model.ScrapeDocument, error)
}

// Checker reviews a document for problems.
type Checker interface {
	Check(doc model.ScrapeDocument) model.ValidationReport
}
