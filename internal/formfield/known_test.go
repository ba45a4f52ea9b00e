package formfield

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Bahjat/udyam-scraper/internal/model"
)

func mustSelector(t *testing.T, tag, id, css string) KnownField {
	t.Helper()
	sel, err := CompileSelector(tag, id, css)
	if err != nil {
		t.Fatalf("CompileSelector(%q, %q, %q): %v", tag, id, css, err)
	}
	return KnownField{Selector: sel}
}

func TestExtractKnownField_OverridesWin(t *testing.T) {
	doc := mustDoc(t, `<label>Aadhaar</label>
		<input id="txtadharno" type="tel" pattern="[0-9]*" placeholder="live" maxlength="14">`)

	field := mustSelector(t, "input", "txtadharno", "")
	field.Overrides = Overrides{
		Key:         "aadhaar_number",
		Label:       "Your Aadhaar No",
		Placeholder: "Your Aadhaar No",
		Validation: &model.ValidationRule{
			Required:  true,
			MinLength: intPtr(12),
			MaxLength: intPtr(12),
			Pattern:   `^\d{12}$`,
			Message:   "Aadhaar number must be exactly 12 digits",
		},
	}

	got, ok := ExtractKnownField(doc, field)
	if !ok {
		t.Fatal("ExtractKnownField() reported the field as absent")
	}
	if got.Key != "aadhaar_number" || got.Label != "Your Aadhaar No" || got.Placeholder != "Your Aadhaar No" {
		t.Errorf("overrides not applied: key=%q label=%q placeholder=%q", got.Key, got.Label, got.Placeholder)
	}
	if diff := cmp.Diff(*field.Overrides.Validation, got.Validation); diff != "" {
		t.Errorf("Validation mismatch (-want +got):\n%s", diff)
	}
	if got.ID != "txtadharno" || got.Type != model.KindTel {
		t.Errorf("extracted attributes lost: id=%q type=%q", got.ID, got.Type)
	}
}

func TestExtractKnownField_NoOverridesKeepsInferred(t *testing.T) {
	doc := mustDoc(t, `<input id="mobile" type="tel" required>`)

	got, ok := ExtractKnownField(doc, mustSelector(t, "input", "mobile", ""))
	if !ok {
		t.Fatal("ExtractKnownField() reported the field as absent")
	}
	if got.Validation.Pattern != MobilePattern || !got.Validation.Required {
		t.Errorf("Validation = %+v, want inferred tel rule", got.Validation)
	}
	if got.Label != "Mobile" {
		t.Errorf("Label = %q, want %q", got.Label, "Mobile")
	}
}

func TestExtractKnownField_Absent(t *testing.T) {
	doc := mustDoc(t, `<input id="other">`)

	tests := []struct {
		name  string
		field KnownField
	}{
		{name: "missing id", field: mustSelector(t, "input", "txtPan", "")},
		{name: "tag mismatch", field: mustSelector(t, "select", "other", "")},
		{name: "nil selector", field: KnownField{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ExtractKnownField(doc, tt.field); ok {
				t.Error("ExtractKnownField() = found, want absent")
			}
		})
	}
}

func TestExtractKnownField_TypeOverrideDropsCheckedState(t *testing.T) {
	doc := mustDoc(t, `<input id="btn" type="checkbox" checked>`)

	field := mustSelector(t, "input", "btn", "")
	field.Overrides.Type = model.KindSubmit

	got, ok := ExtractKnownField(doc, field)
	if !ok {
		t.Fatal("ExtractKnownField() reported the field as absent")
	}
	if got.Type != model.KindSubmit || got.Checked != nil {
		t.Errorf("got type=%q checked=%v, want submit without checked", got.Type, got.Checked)
	}
}

func TestCompileSelector(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		id      string
		css     string
		html    string
		match   bool
		wantErr bool
	}{
		{name: "tag and id", tag: "input", id: "a_b", html: `<input id="a_b">`, match: true},
		{name: "any tag", id: "a_b", html: `<select id="a_b"></select>`, match: true},
		{name: "id with quote", tag: "input", id: `we"ird`, html: `<input id='we"ird'>`, match: true},
		{name: "explicit css wins", tag: "input", id: "nope", css: "form > input.pan", html: `<form><input class="pan"></form>`, match: true},
		{name: "no id no css", tag: "input", wantErr: true},
		{name: "invalid css", css: "input[", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := CompileSelector(tt.tag, tt.id, tt.css)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CompileSelector() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			doc := mustDoc(t, tt.html)
			if got := doc.FindMatcher(sel).Length() > 0; got != tt.match {
				t.Errorf("match = %v, want %v", got, tt.match)
			}
		})
	}
}
