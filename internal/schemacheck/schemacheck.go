// Package schemacheck reviews a scraped document before it is handed to
// form generators. Errors make the document unusable; warnings point at a
// scrape that probably missed something.
package schemacheck

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Bahjat/udyam-scraper/internal/model"
)

const (
	// DefaultExpectedHost is the host of the official registration portal.
	DefaultExpectedHost = "udyamregistration.gov.in"
	defaultMinFields    = 5
)

var (
	keyPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

	knownTypes = map[string]bool{
		model.KindText: true, model.KindEmail: true, model.KindTel: true,
		model.KindSelect: true, model.KindCheckbox: true, model.KindRadio: true,
		"date": true, model.KindSubmit: true, "button": true,
		model.KindTextarea: true, "hidden": true, "number": true, "password": true,
	}
)

// StepExpectation describes what a healthy scrape of one step contains.
type StepExpectation struct {
	Step int
	// Keyword must appear in at least one field key or label.
	Keyword string
	// Types must each be present on at least one field.
	Types []string
}

// Options tunes the checker. Steps listed in OptionalSteps may come back
// empty with only a warning.
type Options struct {
	ExpectedHost  string
	MinFields     int
	Expectations  []StepExpectation
	OptionalSteps []int
}

// Checker validates scraped documents.
type Checker struct {
	opts Options
}

// New returns a Checker. Zero fields in opts fall back to defaults; step 2
// is optional unless opts says otherwise, since the portal hides it behind
// OTP verification.
func New(opts Options) *Checker {
	if opts.ExpectedHost == "" {
		opts.ExpectedHost = DefaultExpectedHost
	}
	if opts.MinFields == 0 {
		opts.MinFields = defaultMinFields
	}
	if opts.OptionalSteps == nil {
		opts.OptionalSteps = []int{2}
	}
	return &Checker{opts: opts}
}

type report struct {
	errors   []string
	warnings []string
}

func (r *report) errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *report) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// Check validates doc and never fails itself; problems are in the report.
func (c *Checker) Check(doc model.ScrapeDocument) model.ValidationReport {
	r := &report{}

	c.checkMetadata(r, doc)

	steps := []struct {
		n   int
		doc model.StepDocument
	}{{1, doc.Step1}, {2, doc.Step2}}

	if len(doc.Step1.Fields) == 0 && len(doc.Step2.Fields) == 0 && doc.Step1.Title == "" && doc.Step2.Title == "" {
		r.errorf("No steps found in data")
	}

	for _, s := range steps {
		c.checkStep(r, s.n, s.doc)
	}

	checkDuplicateKeys(r, doc.Step1.Fields, doc.Step2.Fields)

	return model.ValidationReport{
		Valid:    len(r.errors) == 0,
		Errors:   nonNil(r.errors),
		Warnings: nonNil(r.warnings),
	}
}

func (c *Checker) checkMetadata(r *report, doc model.ScrapeDocument) {
	meta := doc.Metadata
	if meta.ScrapedAt == "" || meta.Source == "" || meta.TotalSteps == 0 || meta.TotalFields == 0 {
		r.errorf("Missing required metadata fields")
		return
	}

	if u, err := url.Parse(meta.Source); err != nil || !strings.EqualFold(u.Hostname(), c.opts.ExpectedHost) {
		r.warnf("Source URL may not be the official Udyam portal")
	}
	if meta.TotalFields < c.opts.MinFields {
		r.warnf("Total field count seems low - may have missed some fields")
	}
	if actual := len(doc.Step1.Fields) + len(doc.Step2.Fields); actual != meta.TotalFields {
		r.warnf("Metadata total_fields is %d but steps contain %d fields", meta.TotalFields, actual)
	}
}

func (c *Checker) checkStep(r *report, n int, step model.StepDocument) {
	name := fmt.Sprintf("Step %d", n)
	if len(step.Fields) == 0 {
		if c.optional(n) {
			r.warnf("%s: No fields found (likely gated behind OTP)", name)
		} else {
			r.errorf("%s: No fields found", name)
		}
		return
	}

	for i, f := range step.Fields {
		checkField(r, name, i, f)
	}

	for _, exp := range c.opts.Expectations {
		if exp.Step == n {
			checkExpectation(r, name, exp, step.Fields)
		}
	}
}

func (c *Checker) optional(n int) bool {
	for _, s := range c.opts.OptionalSteps {
		if s == n {
			return true
		}
	}
	return false
}

func checkField(r *report, step string, i int, f model.FieldDescriptor) {
	prefix := fmt.Sprintf("%s Field %d", step, i)

	for _, p := range []struct{ name, value string }{{"key", f.Key}, {"label", f.Label}, {"type", f.Type}} {
		if p.value == "" {
			r.errorf("%s: Missing required property '%s'", prefix, p.name)
		}
	}

	if f.Key != "" && !keyPattern.MatchString(f.Key) {
		r.warnf("%s: Field key '%s' may not be valid identifier", prefix, f.Key)
	}
	if f.Type != "" && !knownTypes[f.Type] {
		r.warnf("%s: Unknown field type '%s'", prefix, f.Type)
	}

	checkRule(r, prefix, f.Validation)

	if len(f.Options) > 0 && f.Type != model.KindSelect {
		r.errorf("%s: Options present on non-select field", prefix)
	}
	if f.Checked != nil && f.Type != model.KindCheckbox && f.Type != model.KindRadio {
		r.errorf("%s: Checked state present on non-checkbox/radio field", prefix)
	}

	for j, opt := range f.Options {
		if opt.Value == "" && opt.Text == "" {
			r.warnf("%s Option %d: Missing both value and text", prefix, j)
		}
	}
}

func checkRule(r *report, prefix string, rule model.ValidationRule) {
	if rule.MinLength != nil && *rule.MinLength < 0 {
		r.errorf("%s: Validation 'minlength' must be positive number", prefix)
	}
	if rule.MaxLength != nil && *rule.MaxLength < 0 {
		r.errorf("%s: Validation 'maxlength' must be positive number", prefix)
	}
	if rule.MinLength != nil && rule.MaxLength != nil && *rule.MinLength > *rule.MaxLength {
		r.errorf("%s: Validation 'minlength' cannot be greater than 'maxlength'", prefix)
	}
	if rule.Pattern != "" {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			r.warnf("%s: Validation 'pattern' is not RE2-compatible: %v", prefix, err)
		}
	}
}

func checkExpectation(r *report, step string, exp StepExpectation, fields []model.FieldDescriptor) {
	if exp.Keyword != "" {
		kw := strings.ToLower(exp.Keyword)
		found := false
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f.Key), kw) || strings.Contains(strings.ToLower(f.Label), kw) {
				found = true
				break
			}
		}
		if !found {
			r.warnf("%s: No %s-related fields found", step, exp.Keyword)
		}
	}

	for _, typ := range exp.Types {
		found := false
		for _, f := range fields {
			if f.Type == typ {
				found = true
				break
			}
		}
		if !found {
			r.warnf("%s: No %s field found", step, typ)
		}
	}
}

func checkDuplicateKeys(r *report, steps ...[]model.FieldDescriptor) {
	seen := make(map[string]bool)
	for _, fields := range steps {
		for _, f := range fields {
			if f.Key == "" {
				continue
			}
			if seen[f.Key] {
				r.warnf("Duplicate field key found: %s", f.Key)
				continue
			}
			seen[f.Key] = true
		}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
