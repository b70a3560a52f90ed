// Package markup converts the lightweight article notation used by the
// editors into an HTML fragment as a templ component.
//
// The notation is not Markdown. Headings, bold, callout markers, quotes,
// code, tables, and list bullets are rewritten by a fixed, ordered chain of
// regex substitutions; each rule sees the output of the rules before it.
// The chain is single-pass: running Render on its own output produces
// garbage, because escaping never happens before markup expansion. Content
// is trusted author input and is validated non-empty upstream.
package markup

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	// Longest heading marker first so "### " is never half-eaten by "# ".
	reH3 = regexp.MustCompile(`(?m)^### (.+)$`)
	reH2 = regexp.MustCompile(`(?m)^## (.+)$`)
	reH1 = regexp.MustCompile(`(?m)^# (.+)$`)

	reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)

	// Line-level callout markers. ▶︎ and ◼︎ carry U+FE0E variation
	// selectors; they must match byte-for-byte what editors type.
	reSticky = regexp.MustCompile(`(?m)^🔖 (.+)$`)
	rePoint  = regexp.MustCompile(`(?m)^▶︎ (.+)$`)
	reBox    = regexp.MustCompile(`(?m)^◼︎ (.+)$`)
	reQuote  = regexp.MustCompile(`(?m)^> (.+)$`)

	reCodeBlock  = regexp.MustCompile("```([^`]+)```")
	reInlineCode = regexp.MustCompile("`([^`]+)`")

	// Any line framed by pipes is treated as a table row, even when the
	// pipes belong to unrelated prose. Known limitation, kept as-is.
	reTableRow = regexp.MustCompile(`(?m)^\|(.+)\|$`)
	reTableRun = regexp.MustCompile(`(?s)<tr class="blog-table-row">.*?</tr>(?:\s*<tr class="blog-table-row">.*?</tr>)*`)

	reListItem  = regexp.MustCompile(`(?m)^・(.+)$`)
	reParaBreak = regexp.MustCompile(`\n\s*\n`)
)

// Component returns a templ.Component that renders content as HTML.
func Component(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(content))
		return err
	})
}

// Render applies the substitution chain to content and returns the HTML
// fragment. Pure function; rule order is load-bearing.
func Render(content string) string {
	s := content

	// 1. Headings, decorated per rank.
	s = reH3.ReplaceAllString(s, `<h3 class="blog-h3"><span class="blog-h3-icon">🔹</span>$1</h3>`)
	s = reH2.ReplaceAllString(s, `<h2 class="blog-h2"><span class="blog-h2-icon">🔸</span>$1</h2>`)
	s = reH1.ReplaceAllString(s, `<h1 class="blog-h1"><span class="blog-h1-icon">⭐</span>$1</h1>`)

	// 2. Bold spans. Runs before the table rule, so header cells written
	// as |**X**| reach it already expanded.
	s = reBold.ReplaceAllString(s, `<strong class="blog-bold">🔥 $1</strong>`)

	// 3-6. Callout lines and quotes.
	s = reSticky.ReplaceAllString(s, `<div class="blog-sticky-note">📌 $1</div>`)
	s = rePoint.ReplaceAllString(s, `<div class="blog-point">💡 $1</div>`)
	s = reBox.ReplaceAllString(s, `<div class="blog-box">⚠️ $1</div>`)
	s = reQuote.ReplaceAllString(s, `<blockquote class="blog-quote">💬 "$1"</blockquote>`)

	// 7-8. Fenced code, then inline code on whatever backticks remain.
	s = reCodeBlock.ReplaceAllString(s, `<pre class="blog-code">💻 $1</pre>`)
	s = reInlineCode.ReplaceAllString(s, `<code class="blog-inline-code">$1</code>`)

	// 9. Table rows, then one enclosing table around each run of rows.
	s = reTableRow.ReplaceAllStringFunc(s, replaceTableRow)
	s = reTableRun.ReplaceAllStringFunc(s, wrapTableRun)

	// 10. Bullet lines become bare <li> elements. The source notation has
	// no nesting, so no <ul> container is produced.
	s = reListItem.ReplaceAllString(s, `<li class="blog-list">✅ $1</li>`)

	// 11. Blank lines split paragraphs, the whole text gets one outer
	// paragraph, and leftover newlines turn into line breaks.
	s = reParaBreak.ReplaceAllString(s, `</p><p class="blog-paragraph">`)
	s = `<p class="blog-paragraph">` + s + `</p>`
	s = strings.ReplaceAll(s, "\n", `<br class="blog-break" />`)

	return s
}

// replaceTableRow turns one |…|…| line into a <tr>. A row whose inner text
// contains "---" is the header/body divider and is dropped entirely. A cell
// still holding literal ** markers becomes a header cell with the markers
// stripped; in practice rule 2 has usually consumed them already, so most
// rows render as plain data cells.
func replaceTableRow(row string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(row, "|"), "|")
	if strings.Contains(inner, "---") {
		return ""
	}
	var b bytes.Buffer
	b.WriteString(`<tr class="blog-table-row">`)
	for _, cell := range strings.Split(inner, "|") {
		cell = strings.TrimSpace(cell)
		if strings.Contains(cell, "**") {
			b.WriteString(`<th class="blog-table-header">`)
			b.WriteString(strings.ReplaceAll(cell, "**", ""))
			b.WriteString(`</th>`)
		} else {
			b.WriteString(`<td class="blog-table-cell">`)
			b.WriteString(cell)
			b.WriteString(`</td>`)
		}
	}
	b.WriteString(`</tr>`)
	return b.String()
}

// wrapTableRun wraps a run of adjacent table rows in a single table
// element. The blank line left behind by a dropped divider row is swallowed
// here so header and body end up in the same table.
func wrapTableRun(run string) string {
	var b bytes.Buffer
	b.WriteString(`<table class="blog-table"><tbody>`)
	for _, line := range strings.Split(run, "\n") {
		b.WriteString(strings.TrimSpace(line))
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}
