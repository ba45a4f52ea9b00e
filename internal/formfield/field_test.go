package formfield

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Bahjat/udyam-scraper/internal/model"
)

func TestExtractField_Label(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		selector string
		expected string
	}{
		{
			name:     "preceding label sibling",
			html:     `<label>Full Name</label><input id="fn">`,
			selector: "#fn",
			expected: "Full Name",
		},
		{
			name:     "preceding label across other markup",
			html:     `<label> Mobile <b>No</b> </label><br><span>*</span><input id="mob">`,
			selector: "#mob",
			expected: "Mobile No",
		},
		{
			name:     "label for attribute",
			html:     `<label for="mail">Email Address</label><div><input id="mail"></div>`,
			selector: "#mail",
			expected: "Email Address",
		},
		{
			name:     "label of previous control is not reused",
			html:     `<label>First</label><input id="a"><input id="second_field">`,
			selector: "#second_field",
			expected: "Second Field",
		},
		{
			name:     "hidden input between label and control",
			html:     `<label>Mobile No</label><input type="hidden" id="hf"><input id="txt_mob">`,
			selector: "#txt_mob",
			expected: "Mobile No",
		},
		{
			name:     "label of visible input before hidden field",
			html:     `<label>First</label><input id="a"><input type="HIDDEN" id="hf"><input id="txt_next">`,
			selector: "#txt_next",
			expected: "Txt Next",
		},
		{
			name:     "empty label falls through",
			html:     `<label> </label><input id="first_name">`,
			selector: "#first_name",
			expected: "First Name",
		},
		{
			name:     "humanized id",
			html:     `<input id="first_name">`,
			selector: "#first_name",
			expected: "First Name",
		},
		{
			name:     "humanized name without id",
			html:     `<input name="date_of_birth">`,
			selector: "input",
			expected: "Date Of Birth",
		},
		{
			name:     "nothing to go on",
			html:     `<input type="text">`,
			selector: "input",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.html)
			got := ExtractField(doc, doc.Find(tt.selector))
			if got.Label != tt.expected {
				t.Errorf("Label = %q, want %q", got.Label, tt.expected)
			}
		})
	}
}

func TestExtractField_Kind(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{name: "input without type", html: `<input id="x">`, expected: model.KindText},
		{name: "input with empty type", html: `<input id="x" type="">`, expected: model.KindText},
		{name: "mixed case type", html: `<input id="x" type="Email">`, expected: model.KindEmail},
		{name: "submit", html: `<input id="x" type="submit" value="Go">`, expected: model.KindSubmit},
		{name: "select", html: `<select id="x"></select>`, expected: model.KindSelect},
		{name: "textarea", html: `<textarea id="x"></textarea>`, expected: model.KindTextarea},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.html)
			got := ExtractField(doc, doc.Find("#x"))
			if got.Type != tt.expected {
				t.Errorf("Type = %q, want %q", got.Type, tt.expected)
			}
		})
	}
}

func TestExtractField_Attributes(t *testing.T) {
	doc := mustDoc(t, `<form>
		<label>Your Aadhaar No</label>
		<input id="ctl00_txtadharno" name="ctl00$txtadharno" type="text"
			placeholder="Your Aadhaar No" class="form-control  input-lg"
			style="width:100%" maxlength="12" required readonly disabled>
	</form>`)

	got := ExtractField(doc, doc.Find("#ctl00_txtadharno"))
	want := model.FieldDescriptor{
		ID:          "ctl00_txtadharno",
		Name:        "ctl00$txtadharno",
		Type:        model.KindText,
		Label:       "Your Aadhaar No",
		Placeholder: "Your Aadhaar No",
		Required:    true,
		Disabled:    true,
		Readonly:    true,
		Classes:     []string{"form-control", "input-lg"},
		Style:       "width:100%",
		Validation:  model.ValidationRule{Required: true, MaxLength: intPtr(12)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractField() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractField_NoClassIsEmptyList(t *testing.T) {
	doc := mustDoc(t, `<input id="x">`)
	got := ExtractField(doc, doc.Find("#x"))
	if got.Classes == nil || len(got.Classes) != 0 {
		t.Errorf("Classes = %#v, want empty non-nil slice", got.Classes)
	}
}

func TestExtractField_SelectOptions(t *testing.T) {
	doc := mustDoc(t, `<select id="org">
		<option value="0">Type of Organisation</option>
		<optgroup label="Common">
			<option value="1" selected>Proprietary</option>
			<option value="2">Hindu Undivided Family</option>
		</optgroup>
		<option disabled>Other</option>
	</select>`)

	got := ExtractField(doc, doc.Find("#org"))
	want := []model.OptionDescriptor{
		{Value: "0", Text: "Type of Organisation"},
		{Value: "1", Text: "Proprietary", Selected: true},
		{Value: "2", Text: "Hindu Undivided Family"},
		{Value: "Other", Text: "Other", Disabled: true},
	}
	if diff := cmp.Diff(want, got.Options); diff != "" {
		t.Errorf("Options mismatch (-want +got):\n%s", diff)
	}
	if got.Checked != nil {
		t.Errorf("Checked = %v, want nil for select", *got.Checked)
	}
}

func TestExtractField_CheckboxAndRadio(t *testing.T) {
	doc := mustDoc(t, `
		<input id="consent" type="checkbox">
		<input id="male" type="radio" name="gender" value="M" checked>
		<input id="name" type="text" value="ignored">`)

	consent := ExtractField(doc, doc.Find("#consent"))
	if consent.Checked == nil || *consent.Checked {
		t.Errorf("consent.Checked = %v, want false", consent.Checked)
	}
	if consent.Value != nil {
		t.Errorf("consent.Value = %q, want nil for checkbox", *consent.Value)
	}

	male := ExtractField(doc, doc.Find("#male"))
	if male.Checked == nil || !*male.Checked {
		t.Errorf("male.Checked = %v, want true", male.Checked)
	}
	if male.Value == nil || *male.Value != "M" {
		t.Errorf("male.Value = %v, want M", male.Value)
	}

	name := ExtractField(doc, doc.Find("#name"))
	if name.Checked != nil || name.Value != nil {
		t.Errorf("text input carries checked/value: %v %v", name.Checked, name.Value)
	}
	if len(name.Options) != 0 {
		t.Errorf("text input has options: %v", name.Options)
	}
}

func TestExtractField_UncheckedCheckboxSerializesChecked(t *testing.T) {
	doc := mustDoc(t, `<input id="consent" type="checkbox">`)
	data, err := json.Marshal(ExtractField(doc, doc.Find("#consent")))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"checked":false`) {
		t.Errorf("json = %s, want checked:false present", data)
	}
	if strings.Contains(string(data), `"options"`) {
		t.Errorf("json = %s, want no options key", data)
	}
}

func TestExtractField_EmptySelection(t *testing.T) {
	doc := mustDoc(t, `<p></p>`)
	got := ExtractField(doc, doc.Find("input"))
	if got.Type != model.KindText || got.ID != "" {
		t.Errorf("ExtractField(empty) = %+v", got)
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"first_name", "First Name"},
		{"PAN_NUMBER", "Pan Number"},
		{"ctl00_ContentPlaceHolder1_txtPan", "Ctl00 Contentplaceholder1 Txtpan"},
		{"rbtn2ndyes", "Rbtn2ndyes"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Humanize(tt.in); got != tt.want {
			t.Errorf("Humanize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
