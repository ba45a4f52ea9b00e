package scraper

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"

	"github.com/Bahjat/udyam-scraper/internal/formfield"
	"github.com/Bahjat/udyam-scraper/internal/model"
	"github.com/Bahjat/udyam-scraper/internal/schemacheck"
)

//go:embed steps.yaml
var defaultTable []byte

var (
	errNoSteps       = errors.New("field table: no steps defined")
	errStepNumber    = errors.New("field table: step number must be 1 or 2")
	errDuplicateStep = errors.New("field table: duplicate step")
	errMissingStep   = errors.New("field table: both steps 1 and 2 are required")
	errFieldKey      = errors.New("field table: field key is required")
	errDuplicateKey  = errors.New("field table: duplicate field key")
	errUnknownStep   = errors.New("unknown step")
	errFormSelector  = errors.New("field table: invalid form_selector")
)

// Table is the declarative list of known fields per step.
type Table struct {
	KeyPrefix    string      `yaml:"key_prefix"`
	FormSelector string      `yaml:"form_selector"`
	Steps        []StepTable `yaml:"steps"`

	form cascadia.Selector
}

// StepTable lists the known fields of one registration step.
type StepTable struct {
	Number      int          `yaml:"number"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	CatchAll    bool         `yaml:"catch_all"`
	Expect      Expectation  `yaml:"expect"`
	Fields      []FieldEntry `yaml:"fields"`
}

// Expectation describes what a healthy scrape of a step contains.
type Expectation struct {
	Keyword string   `yaml:"keyword"`
	Types   []string `yaml:"types"`
}

// FieldEntry locates one known field and pins its semantics.
type FieldEntry struct {
	Key         string                `yaml:"key"`
	Tag         string                `yaml:"tag"`
	ID          string                `yaml:"id"`
	Selector    string                `yaml:"selector"`
	Label       string                `yaml:"label"`
	Placeholder string                `yaml:"placeholder"`
	Type        string                `yaml:"type"`
	Validation  *model.ValidationRule `yaml:"validation"`

	known formfield.KnownField
}

// DefaultTable returns the embedded table for the Udyam registration page.
func DefaultTable() (*Table, error) {
	return LoadTable(bytes.NewReader(defaultTable))
}

// OpenTable returns the table at path, or the embedded one when path is
// empty.
func OpenTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable()
	}
	return LoadTableFile(path)
}

// LoadTableFile reads a table from a YAML file.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("field table: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadTable(f)
}

// LoadTable decodes and compiles a table. Unknown keys are rejected so that
// typos in hand-edited tables surface immediately.
func LoadTable(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("field table: decode: %w", err)
	}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) compile() error {
	if len(t.Steps) == 0 {
		return errNoSteps
	}

	if t.FormSelector != "" {
		form, err := cascadia.Compile(t.FormSelector)
		if err != nil {
			return fmt.Errorf("%w: %w", errFormSelector, err)
		}
		t.form = form
	}

	numbers := make(map[int]bool, len(t.Steps))
	for i := range t.Steps {
		step := &t.Steps[i]
		if step.Number != 1 && step.Number != 2 {
			return fmt.Errorf("%w: got %d", errStepNumber, step.Number)
		}
		if numbers[step.Number] {
			return fmt.Errorf("%w: %d", errDuplicateStep, step.Number)
		}
		numbers[step.Number] = true

		keys := make(map[string]bool, len(step.Fields))
		for j := range step.Fields {
			f := &step.Fields[j]
			if f.Key == "" {
				return fmt.Errorf("%w: step %d field %d", errFieldKey, step.Number, j)
			}
			if keys[f.Key] {
				return fmt.Errorf("%w: step %d %q", errDuplicateKey, step.Number, f.Key)
			}
			keys[f.Key] = true

			sel, err := formfield.CompileSelector(f.Tag, f.ID, f.Selector)
			if err != nil {
				return fmt.Errorf("field table: step %d %q: %w", step.Number, f.Key, err)
			}
			f.known = formfield.KnownField{
				Selector: sel,
				Overrides: formfield.Overrides{
					Key:         f.Key,
					Label:       f.Label,
					Placeholder: f.Placeholder,
					Type:        f.Type,
					Validation:  f.Validation,
				},
			}
		}
	}

	if !numbers[1] || !numbers[2] {
		return errMissingStep
	}
	return nil
}

// Step returns the table for step n.
func (t *Table) Step(n int) (*StepTable, error) {
	for i := range t.Steps {
		if t.Steps[i].Number == n {
			return &t.Steps[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", errUnknownStep, n)
}

// Scope returns the catch-all scan bounds.
func (t *Table) Scope() formfield.Scope {
	return formfield.Scope{Form: t.form, KeyPrefix: t.KeyPrefix}
}

// Expectations converts the per-step hints for the output validator.
func (t *Table) Expectations() []schemacheck.StepExpectation {
	out := make([]schemacheck.StepExpectation, 0, len(t.Steps))
	for _, s := range t.Steps {
		if s.Expect.Keyword == "" && len(s.Expect.Types) == 0 {
			continue
		}
		out = append(out, schemacheck.StepExpectation{
			Step:    s.Number,
			Keyword: s.Expect.Keyword,
			Types:   s.Expect.Types,
		})
	}
	return out
}
