package model

// Field kinds the extractor emits. Input elements carry their own type
// attribute, so any other value is passed through as-is.
const (
	KindText     = "text"
	KindEmail    = "email"
	KindTel      = "tel"
	KindCheckbox = "checkbox"
	KindRadio    = "radio"
	KindSelect   = "select"
	KindTextarea = "textarea"
	KindSubmit   = "submit"
)

// ScrapeDocument is the complete output of a full scrape.
type ScrapeDocument struct {
	Metadata Metadata     `json:"metadata"`
	Step1    StepDocument `json:"step1"`
	Step2    StepDocument `json:"step2"`
}

// Metadata describes when and where a document was scraped.
type Metadata struct {
	ScrapedAt      string `json:"scraped_at"`
	Source         string `json:"source"`
	TotalSteps     int    `json:"total_steps"`
	TotalFields    int    `json:"total_fields"`
	ScraperVersion string `json:"scraper_version,omitempty"`
	ScraperType    string `json:"scraper_type,omitempty"`
	RunID          string `json:"run_id,omitempty"`
	PageTitle      string `json:"page_title,omitempty"`
	HTMLVersion    string `json:"html_version,omitempty"`
}

// StepDocument holds the fields of one registration step.
type StepDocument struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Fields      []FieldDescriptor `json:"fields"`
}

// FieldDescriptor describes a single form control found on the page.
type FieldDescriptor struct {
	Key         string             `json:"key,omitempty"`
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Label       string             `json:"label"`
	Placeholder string             `json:"placeholder"`
	Required    bool               `json:"required"`
	Disabled    bool               `json:"disabled"`
	Readonly    bool               `json:"readonly"`
	Classes     []string           `json:"class"`
	Style       string             `json:"style"`
	Validation  ValidationRule     `json:"validation"`
	Options     []OptionDescriptor `json:"options,omitempty"`

	// Checked is set only for checkbox and radio inputs.
	Checked *bool `json:"checked,omitempty"`
	// Value is set only for radio inputs.
	Value *string `json:"value,omitempty"`
}

// ValidationRule is a plain record of optional client-side constraints.
type ValidationRule struct {
	Required  bool   `json:"required" yaml:"required"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern"`
	MinLength *int   `json:"minlength,omitempty" yaml:"minlength"`
	MaxLength *int   `json:"maxlength,omitempty" yaml:"maxlength"`
	Message   string `json:"message,omitempty" yaml:"message"`
}

// OptionDescriptor is one <option> of a select element.
type OptionDescriptor struct {
	Value    string `json:"value"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
	Disabled bool   `json:"disabled"`
}

// ValidationReport is the result of checking a ScrapeDocument.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
