package scraper

import (
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/Bahjat/udyam-scraper/internal/formfield"
	"github.com/Bahjat/udyam-scraper/internal/model"
)

const (
	// Version is recorded in every document's metadata.
	Version     = "1.0.0"
	scraperType = "go_goquery"
	totalSteps  = 2
)

// Assembler runs a field table against a parsed page.
type Assembler struct {
	table  *Table
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewAssembler returns an Assembler for the given table.
func NewAssembler(table *Table, logger *slog.Logger) *Assembler {
	return &Assembler{
		table:  table,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Document builds the full two-step document for page.
func (a *Assembler) Document(page *Page, source string) (model.ScrapeDocument, error) {
	step1, err := a.Step(page, 1)
	if err != nil {
		return model.ScrapeDocument{}, err
	}
	step2, err := a.Step(page, 2)
	if err != nil {
		return model.ScrapeDocument{}, err
	}

	return model.ScrapeDocument{
		Metadata: model.Metadata{
			ScrapedAt:      a.now().Format(time.RFC3339),
			Source:         source,
			TotalSteps:     totalSteps,
			TotalFields:    len(step1.Fields) + len(step2.Fields),
			ScraperVersion: Version,
			ScraperType:    scraperType,
			RunID:          a.newID(),
			PageTitle:      page.Title,
			HTMLVersion:    page.HTMLVersion,
		},
		Step1: step1,
		Step2: step2,
	}, nil
}

// Step builds one step's document. It fails only for a step the table
// does not define.
func (a *Assembler) Step(page *Page, n int) (model.StepDocument, error) {
	step, err := a.table.Step(n)
	if err != nil {
		return model.StepDocument{}, err
	}
	return a.build(page.Doc, step), nil
}

func (a *Assembler) build(doc *goquery.Document, step *StepTable) model.StepDocument {
	fields := make([]model.FieldDescriptor, 0, len(step.Fields))
	for _, entry := range step.Fields {
		desc, ok := formfield.ExtractKnownField(doc, entry.known)
		if !ok {
			a.logger.Warn("known field not present on page",
				"step", step.Number,
				"key", entry.Key,
				"id", entry.ID,
			)
			continue
		}
		fields = append(fields, desc)
	}

	if step.CatchAll {
		extra := formfield.ExtractUnknownFields(doc, a.enumeratedIDs(doc), a.table.Scope())
		if len(extra) > 0 {
			a.logger.Debug("captured fields outside the table", "step", step.Number, "count", len(extra))
		}
		fields = append(fields, extra...)
	}

	a.logger.Info("step assembled", "step", step.Number, "fields", len(fields))

	return model.StepDocument{
		Title:       step.Title,
		Description: step.Description,
		Fields:      fields,
	}
}

// enumeratedIDs collects every id the table names, plus the id of any
// element a selector entry matched, so the catch-all never duplicates a
// known field of either step. A selector takes precedence over an id.
func (a *Assembler) enumeratedIDs(doc *goquery.Document) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, step := range a.table.Steps {
		for _, entry := range step.Fields {
			if entry.Selector == "" {
				if entry.ID != "" {
					ids[entry.ID] = struct{}{}
				}
				continue
			}
			if id, ok := doc.FindMatcher(entry.known.Selector).First().Attr("id"); ok && id != "" {
				ids[id] = struct{}{}
			}
		}
	}
	return ids
}
