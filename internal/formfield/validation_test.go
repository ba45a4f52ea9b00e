package formfield

import (
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/Bahjat/udyam-scraper/internal/model"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func intPtr(n int) *int { return &n }

func TestExtractValidation(t *testing.T) {
	tests := []struct {
		name string
		html string
		want model.ValidationRule
	}{
		{
			name: "required with maxlength",
			html: `<input id="x" required maxlength="5">`,
			want: model.ValidationRule{Required: true, MaxLength: intPtr(5)},
		},
		{
			name: "required attribute value is ignored",
			html: `<input id="x" required="false">`,
			want: model.ValidationRule{Required: true},
		},
		{
			name: "pattern and both lengths",
			html: `<input id="x" pattern="[A-Z]+" minlength="2" maxlength="10">`,
			want: model.ValidationRule{Pattern: "[A-Z]+", MinLength: intPtr(2), MaxLength: intPtr(10)},
		},
		{
			name: "non-numeric maxlength is absent",
			html: `<input id="x" maxlength="ten" minlength=" 3 ">`,
			want: model.ValidationRule{MinLength: intPtr(3)},
		},
		{
			name: "zero maxlength is kept",
			html: `<input id="x" maxlength="0">`,
			want: model.ValidationRule{MaxLength: intPtr(0)},
		},
		{
			name: "email overrides pattern attribute",
			html: `<input id="x" type="email" pattern=".*">`,
			want: model.ValidationRule{Pattern: EmailPattern, Message: EmailMessage},
		},
		{
			name: "tel keeps lengths",
			html: `<input id="x" type="TEL" maxlength="10" required>`,
			want: model.ValidationRule{Required: true, Pattern: MobilePattern, Message: MobileMessage, MaxLength: intPtr(10)},
		},
		{
			name: "plain input",
			html: `<input id="x">`,
			want: model.ValidationRule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.html)
			got := ExtractValidation(doc.Find("#x"))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractValidation() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractValidation_EmptySelection(t *testing.T) {
	doc := mustDoc(t, `<p>nothing here</p>`)
	got := ExtractValidation(doc.Find("input"))
	if diff := cmp.Diff(model.ValidationRule{}, got); diff != "" {
		t.Errorf("ExtractValidation() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractValidation_TypedPatterns(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		input string
		match bool
	}{
		{name: "email accepts address", typ: "email", input: "user@example.com", match: true},
		{name: "email rejects plain word", typ: "email", input: "not-an-email", match: false},
		{name: "email rejects missing tld", typ: "email", input: "user@example", match: false},
		{name: "tel accepts mobile", typ: "tel", input: "9876543210", match: true},
		{name: "tel rejects low leading digit", typ: "tel", input: "1234567890", match: false},
		{name: "tel rejects short number", typ: "tel", input: "987654321", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, `<input id="x" type="`+tt.typ+`">`)
			rule := ExtractValidation(doc.Find("#x"))
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				t.Fatalf("pattern %q does not compile: %v", rule.Pattern, err)
			}
			if got := re.MatchString(tt.input); got != tt.match {
				t.Errorf("pattern %q on %q = %v, want %v", rule.Pattern, tt.input, got, tt.match)
			}
		})
	}
}
