package scrapeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Bahjat/udyam-scraper/internal/model"
	"github.com/Bahjat/udyam-scraper/internal/platform/errs"
)

const (
	scrapeTimeout  = 60 * time.Second
	maxRequestBody = 10 << 20 // 10 MB
	uploadSource   = "upload"
)

// Transport handles HTTP requests for form schema scraping.
type Transport struct {
	service *Service
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger) *Transport {
	return &Transport{service: service, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /schema", t.handleSchema)
	mux.HandleFunc("GET /schema/steps/{step}", t.handleStep)
	mux.HandleFunc("POST /extract", t.handleExtract)
	mux.HandleFunc("POST /validate", t.handleValidate)
	mux.HandleFunc("GET /healthz", t.handleHealth)
}

func (t *Transport) handleSchema(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), scrapeTimeout)
	defer cancel()

	doc, err := t.service.Scrape(ctx)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, doc)
}

func (t *Transport) handleStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(r.PathValue("step"))
	if err != nil || (step != 1 && step != 2) {
		t.renderError(w, http.StatusBadRequest, "Step must be 1 or 2.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scrapeTimeout)
	defer cancel()

	doc, err := t.service.ScrapeStep(ctx, step)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, doc)
}

// handleExtract builds a document from an HTML body, for callers that
// fetched the page themselves.
func (t *Transport) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	source := r.URL.Query().Get("source")
	if source == "" {
		source = uploadSource
	}

	doc, err := t.service.Extract(r.Context(), r.Body, r.Header.Get("Content-Type"), source)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			t.renderError(w, http.StatusRequestEntityTooLarge, "HTML body exceeds 10 MB.")
			return
		}
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, doc)
}

func (t *Transport) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var doc model.ScrapeDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a scraped schema document.")
		return
	}

	t.renderJSON(w, http.StatusOK, t.service.Validate(r.Context(), doc))
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Kind {
		case errs.InvalidInput:
			status = http.StatusBadRequest
		case errs.Unreachable:
			status = http.StatusBadGateway
		case errs.Timeout:
			status = http.StatusGatewayTimeout
		case errs.ParsingFailed, errs.Unknown:
			// 500 Internal Server Error
		}
		t.renderError(w, status, appErr.Message)
		return
	}

	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
