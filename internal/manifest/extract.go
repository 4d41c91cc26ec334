package manifest

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultDescription is used when a page has no meta description.
const DefaultDescription = "Project details and images."

// Metadata is harvested with patterns, not a markup parser: only the first
// match of each pattern counts, and nested or malformed tags may resolve
// wrongly. A title spanning several lines does not match.
var (
	titlePattern       = regexp.MustCompile(`(?i)<title[^>]*>(.*?)</title>`)
	descriptionPattern = regexp.MustCompile(`(?i)<meta\s+name=["']description["']\s+content=["'](.*?)["'][^>]*>`)
)

// Metadata is what a project page contributes to its manifest record.
type Metadata struct {
	Title       string
	Description string
}

// Extract reads the title and description out of a project page.
func Extract(content []byte, slug string) (Metadata, error) {
	if !utf8.Valid(content) {
		return Metadata{}, ErrInvalidEncoding
	}
	html := string(content)
	return Metadata{
		Title:       ExtractTitle(html, slug),
		Description: ExtractDescription(html),
	}, nil
}

// ExtractTitle returns the trimmed text of the first <title> tag, or a title
// derived from slug when the tag is missing or blank.
func ExtractTitle(html, slug string) string {
	if m := titlePattern.FindStringSubmatch(html); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	return TitleFromSlug(slug)
}

// ExtractDescription returns the trimmed content of the first
// <meta name="description"> tag, or DefaultDescription when the tag is
// missing or its content is blank.
func ExtractDescription(html string) string {
	if m := descriptionPattern.FindStringSubmatch(html); m != nil {
		if desc := strings.TrimSpace(m[1]); desc != "" {
			return desc
		}
	}
	return DefaultDescription
}

// TitleFromSlug turns "example-PROJECT" into "Example Project": every
// hyphen-separated segment gets an upper-case first letter and a lower-case
// remainder.
func TitleFromSlug(slug string) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + lower.String(w[size:])
	}
	return strings.Join(words, " ")
}
