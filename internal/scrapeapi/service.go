package scrapeapi

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Bahjat/udyam-scraper/internal/model"
	"github.com/Bahjat/udyam-scraper/internal/platform/errs"
	"github.com/Bahjat/udyam-scraper/internal/platform/metrics"
	"github.com/Bahjat/udyam-scraper/internal/platform/requestid"
)

// Scrape modes, as recorded in metrics.
const (
	modeFull = "full"
	modeStep = "step"
	modeHTML = "html"
)

// Service orchestrates a SchemaProvider and a Checker and logs results.
type Service struct {
	provider SchemaProvider
	checker  Checker
	logger   *slog.Logger
}

// NewService creates a Service backed by the given provider and checker.
func NewService(provider SchemaProvider, checker Checker, logger *slog.Logger) *Service {
	return &Service{provider: provider, checker: checker, logger: logger}
}

// Scrape extracts both steps from the live page.
func (s *Service) Scrape(ctx context.Context) (*model.ScrapeDocument, error) {
	logger := requestid.Logger(ctx, s.logger).With("mode", modeFull)

	doc, err := s.provider.Scrape(ctx)
	if err != nil {
		return nil, s.fail(ctx, logger, modeFull, err)
	}

	s.succeed(logger, modeFull, doc.Metadata.TotalFields,
		"step1_fields", len(doc.Step1.Fields),
		"step2_fields", len(doc.Step2.Fields),
		"run_id", doc.Metadata.RunID,
	)
	return doc, nil
}

// ScrapeStep extracts a single step from the live page.
func (s *Service) ScrapeStep(ctx context.Context, step int) (*model.StepDocument, error) {
	logger := requestid.Logger(ctx, s.logger).With("mode", modeStep, "step", step)

	doc, err := s.provider.ScrapeStep(ctx, step)
	if err != nil {
		return nil, s.fail(ctx, logger, modeStep, err)
	}

	s.succeed(logger, modeStep, len(doc.Fields), "title", doc.Title)
	return doc, nil
}

// Extract builds a document from caller-supplied HTML.
func (s *Service) Extract(ctx context.Context, body io.Reader, contentType, source string) (*model.ScrapeDocument, error) {
	logger := requestid.Logger(ctx, s.logger).With("mode", modeHTML, "source", source)

	doc, err := s.provider.ScrapeHTML(body, contentType, source)
	if err != nil {
		return nil, s.fail(ctx, logger, modeHTML, err)
	}

	s.succeed(logger, modeHTML, doc.Metadata.TotalFields)
	return doc, nil
}

// Validate checks doc and logs a summary of the findings.
func (s *Service) Validate(ctx context.Context, doc model.ScrapeDocument) model.ValidationReport {
	report := s.checker.Check(doc)
	requestid.Logger(ctx, s.logger).Info("document validated",
		"valid", report.Valid,
		"errors", len(report.Errors),
		"warnings", len(report.Warnings),
	)
	return report
}

func (s *Service) succeed(logger *slog.Logger, mode string, fields int, attrs ...any) {
	metrics.Scrapes.WithLabelValues(mode, "ok").Inc()
	metrics.FieldsExtracted.Observe(float64(fields))
	logger.Info("scrape complete", append([]any{"total_fields", fields}, attrs...)...)
}

// fail converts an expired request deadline into a Timeout error, then
// records and logs the failure.
func (s *Service) fail(ctx context.Context, logger *slog.Logger, mode string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = &errs.AppError{
			Kind:    errs.Timeout,
			Message: "Scrape timed out. The registration portal may be slow to respond.",
			Cause:   err,
		}
	}

	kind := errs.Unknown
	attrs := []any{"error", err}
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		kind = appErr.Kind
		if appErr.UpstreamStatus != 0 {
			attrs = append(attrs, "upstream_status", appErr.UpstreamStatus)
		}
	}
	attrs = append(attrs, "kind", kind.String())

	metrics.Scrapes.WithLabelValues(mode, kind.String()).Inc()
	logger.Error("scrape failed", attrs...)
	return err
}
