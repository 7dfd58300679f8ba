package generator

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var (
	scriptRe         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	excessiveLinesRe = regexp.MustCompile(`\n{3,}`)
)

// markdownConverter turns HTML in vocabulary descriptions into Markdown
// for the generated README.
type markdownConverter struct {
	converter *md.Converter
}

func newMarkdownConverter() *markdownConverter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &markdownConverter{converter: converter}
}

// Convert returns s as Markdown. Text without HTML elements is returned
// unchanged, as is text the converter rejects.
func (c *markdownConverter) Convert(s string) string {
	if !containsHTML(s) {
		return s
	}

	cleaned := scriptRe.ReplaceAllString(s, "")
	cleaned = styleRe.ReplaceAllString(cleaned, "")

	markdown, err := c.converter.ConvertString(cleaned)
	if err != nil {
		return s
	}
	return cleanMarkdown(markdown)
}

// containsHTML reports whether s holds at least one HTML start tag.
func containsHTML(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			return true
		}
	}
}

func cleanMarkdown(markdown string) string {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	markdown = excessiveLinesRe.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}
