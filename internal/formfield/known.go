package formfield

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/Bahjat/udyam-scraper/internal/model"
)

var errEmptySelector = errors.New("formfield: selector needs a css expression or an id")

// Overrides pin field semantics regardless of what the live markup says.
// Empty strings and a nil Validation leave the extracted value in place.
type Overrides struct {
	Key         string
	Label       string
	Placeholder string
	Type        string
	Validation  *model.ValidationRule
}

// KnownField pairs a compiled selector with the overrides applied to the
// element it matches.
type KnownField struct {
	Selector  cascadia.Selector
	Overrides Overrides
}

// CompileSelector builds the selector for a known field. An explicit css
// expression wins; otherwise the element is matched by tag and id.
func CompileSelector(tag, id, css string) (cascadia.Selector, error) {
	if css == "" {
		if id == "" {
			return nil, errEmptySelector
		}
		if tag == "" {
			tag = "*"
		}
		css = fmt.Sprintf(`%s[id="%s"]`, tag, cssEscaper.Replace(id))
	}

	sel, err := cascadia.Compile(css)
	if err != nil {
		return nil, fmt.Errorf("formfield: compile %q: %w", css, err)
	}
	return sel, nil
}

var cssEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// ExtractKnownField locates the field in doc and merges its overrides on top
// of the extracted descriptor. It reports false when the element is absent,
// which callers treat as the field not existing on this page revision.
func ExtractKnownField(doc *goquery.Document, field KnownField) (model.FieldDescriptor, bool) {
	if field.Selector == nil {
		return model.FieldDescriptor{}, false
	}

	el := doc.FindMatcher(field.Selector).First()
	if el.Length() == 0 {
		return model.FieldDescriptor{}, false
	}

	desc := ExtractField(doc, el)
	field.Overrides.apply(&desc)
	return desc, true
}

func (o Overrides) apply(desc *model.FieldDescriptor) {
	if o.Key != "" {
		desc.Key = o.Key
	}
	if o.Label != "" {
		desc.Label = o.Label
	}
	if o.Placeholder != "" {
		desc.Placeholder = o.Placeholder
	}
	if o.Type != "" {
		desc.Type = o.Type
		if desc.Type != model.KindSelect {
			desc.Options = nil
		}
		if desc.Type != model.KindCheckbox && desc.Type != model.KindRadio {
			desc.Checked = nil
		}
		if desc.Type != model.KindRadio {
			desc.Value = nil
		}
	}
	if o.Validation != nil {
		desc.Validation = *o.Validation
	}
}
