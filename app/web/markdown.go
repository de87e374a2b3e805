package web

import (
	"strings"

	"github.com/umputun/kingcrab/app/store"
)

const (
	linkText   = "🔗 Ver oferta"
	noLinkText = "No disponible"
)

// markdownTable renders postings as a markdown table of title and url.
// Url becomes a link, or the placeholder if missing.
func markdownTable(postings []store.Posting) string {
	var sb strings.Builder
	sb.WriteString("| titulo | url |\n")
	sb.WriteString("|:-------|:----|\n")
	for _, p := range postings {
		sb.WriteString("| ")
		sb.WriteString(escapeMarkdownCell(p.Title))
		sb.WriteString(" | ")
		sb.WriteString(markdownLink(p))
		sb.WriteString(" |\n")
	}
	return sb.String()
}

func markdownLink(p store.Posting) string {
	if !p.HasURL() {
		return noLinkText
	}
	u := strings.NewReplacer("(", "%28", ")", "%29", " ", "%20", "|", "%7C").Replace(strings.TrimSpace(p.URL))
	return "[" + linkText + "](" + u + ")"
}

func escapeMarkdownCell(s string) string {
	s = strings.Join(strings.Fields(s), " ") // no newlines inside a row
	return strings.ReplaceAll(s, "|", `\|`)
}
