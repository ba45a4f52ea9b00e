package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Page is a parsed registration page plus the page-level facts recorded in
// the output metadata.
type Page struct {
	Doc         *goquery.Document
	Title       string
	HTMLVersion string
}

// Parse decodes body to UTF-8 using contentType and any <meta charset>
// hints, then builds the document tree.
func Parse(body io.Reader, contentType string) (*Page, error) {
	utf8Body, err := charset.NewReader(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return &Page{
		Doc:         doc,
		Title:       strings.TrimSpace(doc.Find("head > title").First().Text()),
		HTMLVersion: detectHTMLVersion(doc),
	}, nil
}

func detectHTMLVersion(doc *goquery.Document) string {
	if len(doc.Nodes) == 0 {
		return "Unknown"
	}
	for n := doc.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.DoctypeNode {
			return doctypeVersion(n)
		}
	}
	return "Unknown"
}

// doctypeVersion maps a doctype node to a version name.
// https://www.w3.org/QA/2002/04/valid-dtd-list.html
func doctypeVersion(n *html.Node) string {
	var public string
	for _, a := range n.Attr {
		if a.Key == "public" {
			public = strings.ToLower(a.Val)
		}
	}

	if public == "" {
		// HTML5 doctype has no PUBLIC identifier.
		return "HTML5"
	}

	switch {
	case strings.Contains(public, "xhtml 1.1") || strings.Contains(public, "xhtml basic 1.1"):
		return "XHTML 1.1"
	case strings.Contains(public, "xhtml 1.0"):
		return "XHTML 1.0"
	case strings.Contains(public, "html 4.01"):
		return "HTML 4.01"
	default:
		return "Unknown"
	}
}
