package scraper

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/Bahjat/udyam-scraper/internal/model"
	"github.com/Bahjat/udyam-scraper/internal/platform/errs"
	"github.com/Bahjat/udyam-scraper/internal/platform/metrics"
)

// Engine orchestrates page fetching, HTML parsing, and field assembly.
type Engine struct {
	fetcher   Fetcher
	assembler *Assembler
	sourceURL string
}

// NewEngine returns an Engine that scrapes sourceURL.
func NewEngine(fetcher Fetcher, assembler *Assembler, sourceURL string) *Engine {
	return &Engine{
		fetcher:   fetcher,
		assembler: assembler,
		sourceURL: sourceURL,
	}
}

// Source returns the URL the engine scrapes.
func (e *Engine) Source() string {
	return e.sourceURL
}

// Scrape fetches the page once and extracts both steps.
func (e *Engine) Scrape(ctx context.Context) (*model.ScrapeDocument, error) {
	page, err := e.fetchPage(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := e.assembler.Document(page, e.sourceURL)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.Unknown, Message: "Failed to assemble the document.", Cause: err}
	}
	return &doc, nil
}

// ScrapeStep fetches the page once and extracts a single step.
func (e *Engine) ScrapeStep(ctx context.Context, step int) (*model.StepDocument, error) {
	if _, err := e.assembler.table.Step(step); err != nil {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Step must be 1 or 2.",
			Cause:   err,
		}
	}

	page, err := e.fetchPage(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := e.assembler.Step(page, step)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.Unknown, Message: "Failed to assemble the step.", Cause: err}
	}
	return &doc, nil
}

// ScrapeHTML extracts both steps from already-downloaded HTML, such as a
// saved copy of the page. source is recorded in the metadata.
func (e *Engine) ScrapeHTML(body io.Reader, contentType, source string) (*model.ScrapeDocument, error) {
	page, err := Parse(body, contentType)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.ParsingFailed,
			Message: "Failed to parse the HTML content.",
			Cause:   err,
		}
	}

	doc, err := e.assembler.Document(page, source)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.Unknown, Message: "Failed to assemble the document.", Cause: err}
	}
	return &doc, nil
}

func (e *Engine) fetchPage(ctx context.Context) (*Page, error) {
	parsed, err := url.Parse(e.sourceURL)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Invalid source URL format.",
			Cause:   err,
		}
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Only absolute http and https source URLs are supported.",
		}
	}

	start := time.Now()
	resp, err := e.fetcher.Fetch(ctx, e.sourceURL)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		kind := errs.Unreachable
		if isTimeout(err) {
			kind = errs.Timeout
		}
		return nil, &errs.AppError{
			Kind:    kind,
			Message: "The registration page could not be reached.",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, &errs.AppError{
			Kind:           errs.Unreachable,
			UpstreamStatus: resp.StatusCode,
			Message:        "The registration page returned an error status.",
		}
	}

	page, err := Parse(resp.Body, resp.ContentType)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.ParsingFailed,
			Message: "Failed to parse the HTML content.",
			Cause:   err,
		}
	}
	return page, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
