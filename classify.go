package hotpaste

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// The classifier is a heuristic, not a grammar: copy buttons often emit HTML
// that is only inline-styled spans around literal Markdown text, and feeding
// that to an HTML-aware converter renders the Markdown syntax literally.
// False positives (structured HTML downgraded to Markdown) and false
// negatives (Markdown pasted literally) are both possible at the margins;
// the tag sets and hint threshold below are tunable constants, not exact
// contracts.

// defaultMarkdownHintThreshold is the number of distinct Markdown syntax
// hints that marks an unstructured fragment as Markdown text.
const defaultMarkdownHintThreshold = 2

// semanticTags provide real document structure; any one of them means the
// fragment is genuine HTML.
var semanticTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "ul": true, "ol": true, "li": true, "dl": true, "dt": true,
	"dd": true, "table": true, "thead": true, "tbody": true, "tfoot": true,
	"tr": true, "th": true, "td": true, "col": true, "colgroup": true,
	"pre": true, "code": true, "blockquote": true, "figure": true,
	"figcaption": true, "math": true, "section": true, "article": true,
	"header": true, "footer": true, "aside": true, "nav": true, "hr": true,
}

// inlineWrapperTags are the decoration elements copy buttons wrap plain
// text in; they carry no block structure.
var inlineWrapperTags = map[string]bool{
	"span": true, "font": true, "strong": true, "em": true, "b": true,
	"i": true, "u": true, "sub": true, "sup": true, "s": true, "del": true,
	"mark": true, "a": true,
}

// documentShellTags are ignored when checking for inline-only content.
var documentShellTags = map[string]bool{
	"html": true, "head": true, "body": true, "meta": true, "style": true,
}

// markdownHints are syntax markers scored against the fragment's visible
// text when no tag-based decision is possible.
var markdownHints = []string{
	"\n#", "\n##", "\n- ", "\n* ", "\n1.", "```", "**", "__", "~~", "> ",
	"$$", `\(`, `\)`, "|", "\n---", "\n***", "`",
}

// classifier decides whether an HTML fragment is really Markdown or plain
// text wrapped in styling spans.
type classifier struct {
	hintThreshold int
}

// IsPlainMarkdownWrapper reports whether the fragment should be routed as
// Markdown text instead of HTML. Decision order: empty input is plain, any
// semantic tag means real HTML, inline-wrapper-only markup is plain, and
// otherwise the visible text is scored against Markdown syntax hints.
func (c classifier) IsPlainMarkdownWrapper(fragment string) bool {
	if strings.TrimSpace(fragment) == "" {
		return true
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return true
	}

	root := doc
	if body := findElement(doc, atom.Body); body != nil {
		root = body
	}

	semantic := false
	inlineOnly := true
	walkNodes(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		name := strings.ToLower(n.Data)
		if semanticTags[name] {
			semantic = true
			return false
		}
		if !documentShellTags[name] && !inlineWrapperTags[name] {
			inlineOnly = false
		}
		return true
	})

	if semantic {
		return false
	}
	if inlineOnly {
		return true
	}

	text := strings.TrimSpace(visibleText(root))
	if text == "" {
		return true
	}
	return c.markdownHintScore(text) >= c.threshold()
}

// markdownHintScore counts distinct Markdown syntax hints in the text.
func (c classifier) markdownHintScore(text string) int {
	// Leading newline so start-of-text markers match line-anchored hints.
	text = "\n" + text
	score := 0
	for _, hint := range markdownHints {
		if strings.Contains(text, hint) {
			score++
		}
	}
	return score
}

func (c classifier) threshold() int {
	if c.hintThreshold > 0 {
		return c.hintThreshold
	}
	return defaultMarkdownHintThreshold
}

// visibleText extracts the text content of a subtree, one text node per
// line, skipping script and style.
func visibleText(n *html.Node) string {
	var parts []string
	walkNodes(n, func(node *html.Node) bool {
		if node.Type == html.ElementNode && (node.DataAtom == atom.Script || node.DataAtom == atom.Style) {
			return false
		}
		if node.Type == html.TextNode {
			if t := node.Data; strings.TrimSpace(t) != "" {
				parts = append(parts, t)
			}
		}
		return true
	})
	return strings.Join(parts, "\n")
}
