package formfield

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/Bahjat/udyam-scraper/internal/model"
)

const controlSelector = "input, select, textarea"

// Scope bounds the catch-all scan.
type Scope struct {
	// Form matches the primary form container. Nil means the first <form>.
	Form cascadia.Selector
	// KeyPrefix is stripped from lower-cased ids when deriving keys.
	KeyPrefix string
}

// ExtractUnknownFields captures every form control with an id that the
// caller has not already enumerated, in document order. Each id is emitted
// at most once. The exclude set is not modified.
func ExtractUnknownFields(doc *goquery.Document, exclude map[string]struct{}, scope Scope) []model.FieldDescriptor {
	var form *goquery.Selection
	if scope.Form != nil {
		form = doc.FindMatcher(scope.Form).First()
	} else {
		form = doc.Find("form").First()
	}
	if form.Length() == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(exclude))
	for id := range exclude {
		seen[id] = struct{}{}
	}

	var fields []model.FieldDescriptor
	form.Find(controlSelector).Each(func(_ int, el *goquery.Selection) {
		id := attr(el, "id")
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}

		desc := ExtractField(doc, el)
		desc.Key = DeriveKey(id, scope.KeyPrefix)
		fields = append(fields, desc)
	})
	return fields
}

// DeriveKey lower-cases id and strips prefix. Different prefixes can map
// to the same key; collisions are left for the caller to report.
func DeriveKey(id, prefix string) string {
	return strings.TrimPrefix(strings.ToLower(id), strings.ToLower(prefix))
}
