package formfield

import (
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/google/go-cmp/cmp"
)

const catchAllPage = `<html><body>
<input id="outside_form">
<form id="aspnetForm">
	<input type="hidden" id="__VIEWSTATE" value="x">
	<input id="ctl00_ContentPlaceHolder1_txtadharno">
	<input name="no_id">
	<select id="ctl00_ContentPlaceHolder1_ddlState"><option>A</option></select>
	<input id="ctl00_ContentPlaceHolder1_txtownername">
	<textarea id="ctl00_ContentPlaceHolder1_txtAddress"></textarea>
	<input id="ctl00_ContentPlaceHolder1_ddlState">
</form>
<form id="second"><input id="second_form_field"></form>
</body></html>`

func TestExtractUnknownFields(t *testing.T) {
	doc := mustDoc(t, catchAllPage)
	exclude := map[string]struct{}{
		"ctl00_ContentPlaceHolder1_txtadharno":   {},
		"ctl00_ContentPlaceHolder1_txtownername": {},
	}

	fields := ExtractUnknownFields(doc, exclude, Scope{KeyPrefix: "ctl00_ContentPlaceHolder1_"})

	var ids, keys []string
	for _, f := range fields {
		ids = append(ids, f.ID)
		keys = append(keys, f.Key)
	}

	wantIDs := []string{"__VIEWSTATE", "ctl00_ContentPlaceHolder1_ddlState", "ctl00_ContentPlaceHolder1_txtAddress"}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	wantKeys := []string{"__viewstate", "ddlstate", "txtaddress"}
	if diff := cmp.Diff(wantKeys, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	for _, f := range fields {
		if _, ok := exclude[f.ID]; ok {
			t.Errorf("excluded id %q returned", f.ID)
		}
	}
	if len(exclude) != 2 {
		t.Errorf("exclude set was modified: %v", exclude)
	}
}

func TestExtractUnknownFields_FormSelector(t *testing.T) {
	doc := mustDoc(t, catchAllPage)
	form := cascadia.MustCompile("form#second")

	fields := ExtractUnknownFields(doc, nil, Scope{Form: form})
	if len(fields) != 1 || fields[0].ID != "second_form_field" {
		t.Fatalf("fields = %+v, want only second_form_field", fields)
	}
	if fields[0].Key != "second_form_field" {
		t.Errorf("Key = %q, want %q", fields[0].Key, "second_form_field")
	}
}

func TestExtractUnknownFields_NoForm(t *testing.T) {
	doc := mustDoc(t, `<input id="a"><select id="b"></select>`)
	if fields := ExtractUnknownFields(doc, nil, Scope{}); len(fields) != 0 {
		t.Errorf("fields = %+v, want none without a form", fields)
	}
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		id, prefix, want string
	}{
		{"ctl00_ContentPlaceHolder1_txtPan", "ctl00_contentplaceholder1_", "txtpan"},
		{"ctl00_ContentPlaceHolder1_txtPan", "CTL00_CONTENTPLACEHOLDER1_", "txtpan"},
		{"txtPan_ctl00_contentplaceholder1_", "ctl00_contentplaceholder1_", "txtpan_ctl00_contentplaceholder1_"},
		{"Mobile_No", "", "mobile_no"},
	}
	for _, tt := range tests {
		if got := DeriveKey(tt.id, tt.prefix); got != tt.want {
			t.Errorf("DeriveKey(%q, %q) = %q, want %q", tt.id, tt.prefix, got, tt.want)
		}
	}
}
