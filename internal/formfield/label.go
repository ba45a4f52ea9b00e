package formfield

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// resolveLabel finds a human-readable label for el. The first strategy that
// yields non-empty text wins:
//  1. the nearest preceding <label> sibling
//  2. a <label for="..."> anywhere in the document matching el's id
//  3. el's id, humanized
//  4. el's name, humanized
func resolveLabel(doc *goquery.Document, el *goquery.Selection) string {
	if text := precedingLabelText(el.Get(0)); text != "" {
		return text
	}

	id := attr(el, "id")
	if id != "" {
		if text := labelForText(doc, id); text != "" {
			return text
		}
		return Humanize(id)
	}

	return Humanize(attr(el, "name"))
}

// precedingLabelText walks backwards over n's siblings. It stops at another
// visible form control, since any label before that one belongs to it.
// Hidden inputs carry no label and are stepped over.
func precedingLabelText(n *html.Node) string {
	if n == nil {
		return ""
	}
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type != html.ElementNode {
			continue
		}
		switch sib.Data {
		case "label":
			return nodeText(sib)
		case "input":
			if !strings.EqualFold(nodeAttr(sib, "type"), "hidden") {
				return ""
			}
		case "select", "textarea", "button":
			return ""
		}
	}
	return ""
}

func nodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func labelForText(doc *goquery.Document, id string) string {
	label := doc.Find("label").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return attr(s, "for") == id
	}).First()
	if label.Length() == 0 {
		return ""
	}
	return collapse(label.Text())
}

func nodeText(n *html.Node) string {
	return collapse(goquery.NewDocumentFromNode(n).Text())
}

// Humanize turns an identifier such as "first_name" into "First Name".
func Humanize(ident string) string {
	if ident == "" {
		return ""
	}
	return cases.Title(language.Und).String(strings.ReplaceAll(ident, "_", " "))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
