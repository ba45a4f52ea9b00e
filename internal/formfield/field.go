// Package formfield turns HTML form controls into model.FieldDescriptor
// values. All functions are pure reads over a parsed document.
package formfield

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bahjat/udyam-scraper/internal/model"
)

// ExtractField describes the first element of el. Missing attributes
// default to empty values; extraction never fails.
func ExtractField(doc *goquery.Document, el *goquery.Selection) model.FieldDescriptor {
	el = el.First()
	if el.Length() == 0 {
		return model.FieldDescriptor{Type: model.KindText, Classes: []string{}}
	}

	tag := goquery.NodeName(el)
	field := model.FieldDescriptor{
		ID:          attr(el, "id"),
		Name:        attr(el, "name"),
		Type:        kindOf(el, tag),
		Label:       resolveLabel(doc, el),
		Placeholder: attr(el, "placeholder"),
		Required:    hasAttr(el, "required"),
		Disabled:    hasAttr(el, "disabled"),
		Readonly:    hasAttr(el, "readonly"),
		Classes:     classList(el),
		Style:       attr(el, "style"),
		Validation:  ExtractValidation(el),
	}

	switch {
	case tag == "select":
		field.Options = extractOptions(el)
	case tag == "input" && (field.Type == model.KindCheckbox || field.Type == model.KindRadio):
		checked := hasAttr(el, "checked")
		field.Checked = &checked
		if field.Type == model.KindRadio {
			value := attr(el, "value")
			field.Value = &value
		}
	}

	return field
}

func kindOf(el *goquery.Selection, tag string) string {
	switch tag {
	case "select":
		return model.KindSelect
	case "textarea":
		return model.KindTextarea
	}
	if t := strings.ToLower(strings.TrimSpace(attr(el, "type"))); t != "" {
		return t
	}
	return model.KindText
}

func classList(el *goquery.Selection) []string {
	classes := strings.Fields(attr(el, "class"))
	if classes == nil {
		return []string{}
	}
	return classes
}

// extractOptions lists the select's options in document order, including
// those nested in <optgroup>. An option without a value attribute submits
// its text, so that is what we record.
func extractOptions(sel *goquery.Selection) []model.OptionDescriptor {
	var options []model.OptionDescriptor
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		text := collapse(opt.Text())
		value, ok := opt.Attr("value")
		if !ok {
			value = text
		}
		options = append(options, model.OptionDescriptor{
			Value:    value,
			Text:     text,
			Selected: hasAttr(opt, "selected"),
			Disabled: hasAttr(opt, "disabled"),
		})
	})
	return options
}
