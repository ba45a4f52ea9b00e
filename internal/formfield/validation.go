package formfield

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bahjat/udyam-scraper/internal/model"
)

// Patterns applied to typed inputs regardless of their pattern attribute.
const (
	EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	EmailMessage = "Please enter a valid email address"

	MobilePattern = `^[6-9]\d{9}$`
	MobileMessage = "Please enter a valid 10-digit mobile number"
)

// ExtractValidation infers a ValidationRule from the element's attributes.
// Malformed length attributes are treated as absent.
func ExtractValidation(el *goquery.Selection) model.ValidationRule {
	var rule model.ValidationRule
	if el.Length() == 0 {
		return rule
	}

	rule.Required = hasAttr(el, "required")
	rule.Pattern = attr(el, "pattern")
	rule.MaxLength = intAttr(el, "maxlength")
	rule.MinLength = intAttr(el, "minlength")

	switch strings.ToLower(attr(el, "type")) {
	case model.KindEmail:
		rule.Pattern = EmailPattern
		rule.Message = EmailMessage
	case model.KindTel:
		rule.Pattern = MobilePattern
		rule.Message = MobileMessage
	}

	return rule
}

func attr(el *goquery.Selection, name string) string {
	v, _ := el.Attr(name)
	return v
}

func hasAttr(el *goquery.Selection, name string) bool {
	_, ok := el.Attr(name)
	return ok
}

func intAttr(el *goquery.Selection, name string) *int {
	raw, ok := el.Attr(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}
