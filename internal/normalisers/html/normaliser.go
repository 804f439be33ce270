package html

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	titleTag     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag       = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	navTag       = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	footerTag    = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	bodyTag      = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)

	// Block-level elements become newlines so text keeps its shape.
	blockElements     = regexp.MustCompile(`(?i)</(p|div|section|article|main|header|footer|h[1-6]|li|ul|ol|table|tr|blockquote|pre|figure)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|section|article|main|header|h[1-6]|li|ul|ol|table|tr|blockquote|pre|figure)(\s[^>]*)?>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)

	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)

	// Content regions, tried in order. Each captures the element name so
	// the matching close tag can be found with a depth scan.
	regionOpenPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<(main)(\s[^>]*)?>`),
		regexp.MustCompile(`(?i)<(article)(\s[^>]*)?>`),
		regexp.MustCompile(`(?is)<([a-z][a-z0-9]*)[^>]*\bid\s*=\s*"(?:content|main-content)"[^>]*>`),
		regexp.MustCompile(`(?is)<([a-z][a-z0-9]*)[^>]*\bclass\s*=\s*"(?:[^"]*\s)?(?:content|main-content|post-content|entry-content)(?:\s[^"]*)?"[^>]*>`),
	}
)

// Normaliser converts HTML documents to plain text.
type Normaliser struct{}

// New creates an HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/html",
		"application/xhtml+xml",
	}
}

// Priority returns the selection priority for this normaliser.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts readable text from an HTML document. The page title
// comes from the <title> tag, and the body text from the page's main
// content region when one can be found.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	page := string(raw.Content)
	title := extractHTMLTitle(page, raw.URI)
	text := extractText(page)

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text in %s", domain.ErrExtractEmpty, raw.URI)
	}

	metadata := copyMetadata(raw.Metadata)
	metadata["mime_type"] = raw.MIMEType
	metadata["format"] = "html"
	metadata["sourceType"] = string(domain.SourceWeb)

	return &driven.NormaliseResult{
		Document: domain.Document{
			URI:      raw.URI,
			Title:    title,
			Content:  text,
			Metadata: metadata,
		},
	}, nil
}

// extractText strips an HTML page down to its readable text, preferring
// the main content region over boilerplate.
func extractText(page string) string {
	// Comments can hide tags from the region scanner.
	page = htmlComments.ReplaceAllString(page, "")

	if m := bodyTag.FindStringSubmatch(page); m != nil {
		page = m[1]
	}

	if region := extractRegion(page); strings.TrimSpace(stripTags(region)) != "" {
		page = region
	}

	return stripTags(page)
}

// extractRegion returns the inner HTML of the first content region found,
// or the empty string when no region matches.
func extractRegion(page string) string {
	for _, re := range regionOpenPatterns {
		loc := re.FindStringSubmatchIndex(page)
		if loc == nil {
			continue
		}
		tag := strings.ToLower(page[loc[2]:loc[3]])
		inner := balancedInner(page, loc[1], tag)
		if strings.TrimSpace(inner) != "" {
			return inner
		}
	}
	return ""
}

// balancedInner scans from start for the close tag matching an already-open
// element, tracking nesting depth. When the document never closes the
// element the rest of the page is returned.
func balancedInner(page string, start int, tag string) string {
	lower := strings.ToLower(page)
	openTag := "<" + tag
	closeTag := "</" + tag
	depth := 1
	pos := start

	for depth > 0 {
		nextOpen := indexTagFrom(lower, openTag, pos)
		nextClose := strings.Index(lower[pos:], closeTag)
		if nextClose < 0 {
			return page[start:]
		}
		nextClose += pos

		if nextOpen >= 0 && nextOpen < nextClose {
			depth++
			pos = nextOpen + len(openTag)
			continue
		}

		depth--
		if depth == 0 {
			return page[start:nextClose]
		}
		pos = nextClose + len(closeTag)
	}
	return page[start:]
}

// indexTagFrom finds the next occurrence of an opening tag, requiring a
// delimiter after the name so "<main" does not match "<mainframe".
func indexTagFrom(lower, open string, from int) int {
	for {
		idx := strings.Index(lower[from:], open)
		if idx < 0 {
			return -1
		}
		idx += from
		end := idx + len(open)
		if end >= len(lower) || lower[end] == '>' || lower[end] == ' ' || lower[end] == '\t' || lower[end] == '\n' || lower[end] == '/' {
			return idx
		}
		from = end
	}
}

// stripTags removes markup and collapses whitespace, keeping paragraph
// breaks as blank lines.
func stripTags(fragment string) string {
	text := htmlComments.ReplaceAllString(fragment, "")
	text = headTag.ReplaceAllString(text, "")
	text = scriptTag.ReplaceAllString(text, "")
	text = styleTag.ReplaceAllString(text, "")
	text = noscriptTag.ReplaceAllString(text, "")
	text = svgTag.ReplaceAllString(text, "")
	text = navTag.ReplaceAllString(text, "")
	text = footerTag.ReplaceAllString(text, "")

	text = blockElements.ReplaceAllString(text, "\n\n")
	text = openBlockElements.ReplaceAllString(text, "\n")
	text = brTags.ReplaceAllString(text, "\n")
	text = hrTags.ReplaceAllString(text, "\n")

	text = allTags.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)

	text = multiSpaces.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = multiNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// extractHTMLTitle pulls the page title from the <title> tag, falling back
// to the URI's file name.
func extractHTMLTitle(page, uri string) string {
	if m := titleTag.FindStringSubmatch(page); m != nil {
		title := html.UnescapeString(strings.TrimSpace(m[1]))
		title = multiSpaces.ReplaceAllString(title, " ")
		if title != "" {
			return title
		}
	}

	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	if name == "" || name == "." || name == "/" {
		return "Untitled"
	}
	return name
}

func copyMetadata(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+3)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
